package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	studio "github.com/pulsekit/go-studio/components/studio"
)

type preferencesService interface {
	SavePreferences(ctx context.Context, input studio.PreferencesInput) error
}

// SavePreferencesCommand wraps Service.SavePreferences for transports.
type SavePreferencesCommand struct {
	service   preferencesService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates a command instance.
func NewSavePreferencesCommand(service preferencesService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[studio.PreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute delegates to the studio service.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg studio.PreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if err := c.service.SavePreferences(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.preferences.save", map[string]any{
		"week_start":  msg.WeekStart != nil,
		"brand_voice": msg.BrandVoice != nil,
	})
	return nil
}
