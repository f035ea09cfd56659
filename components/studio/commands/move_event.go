package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
)

type moveService interface {
	MoveEvent(ctx context.Context, id string, to time.Time) error
}

// MoveEventInput reschedules one calendar event.
type MoveEventInput struct {
	EventID string    `json:"event_id"`
	To      time.Time `json:"to"`
}

// MoveEventCommand wraps Service.MoveEvent for transports.
type MoveEventCommand struct {
	service   moveService
	telemetry Telemetry
}

// NewMoveEventCommand creates a command instance.
func NewMoveEventCommand(service moveService, telemetry Telemetry) *MoveEventCommand {
	return &MoveEventCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveEventInput] = (*MoveEventCommand)(nil)

// Execute delegates to the studio service.
func (c *MoveEventCommand) Execute(ctx context.Context, msg MoveEventInput) error {
	if c.service == nil {
		return errors.New("move command requires service")
	}
	if msg.EventID == "" {
		return errors.New("move command requires an event id")
	}
	if err := c.service.MoveEvent(ctx, msg.EventID, msg.To); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.event.move", map[string]any{"event": msg.EventID})
	return nil
}
