package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/analytics"
)

type refreshService interface {
	RefreshPlatforms(ctx context.Context) ([]analytics.Platform, error)
}

// RefreshPlatformsInput triggers a full re-sync of every connected
// platform.
type RefreshPlatformsInput struct{}

// RefreshPlatformsCommand wraps Service.RefreshPlatforms so transports can
// trigger syncs without linking against the service.
type RefreshPlatformsCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshPlatformsCommand creates a command instance.
func NewRefreshPlatformsCommand(service refreshService, telemetry Telemetry) *RefreshPlatformsCommand {
	return &RefreshPlatformsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshPlatformsInput] = (*RefreshPlatformsCommand)(nil)

// Execute delegates to the studio service.
func (c *RefreshPlatformsCommand) Execute(ctx context.Context, _ RefreshPlatformsInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	failed, err := c.service.RefreshPlatforms(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.refresh", map[string]any{"failed": len(failed)})
	return nil
}
