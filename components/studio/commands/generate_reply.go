package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/replyassist"
)

type replyController interface {
	GenerateReply(ctx context.Context, opportunityID string) (replyassist.GeneratedReply, error)
}

// GenerateReplyInput requests a reply suggestion for one opportunity.
type GenerateReplyInput struct {
	OpportunityID string `json:"opportunity_id"`
}

// GenerateReplyCommand wraps the reply-assistant controller for transports.
type GenerateReplyCommand struct {
	controller replyController
	telemetry  Telemetry
}

// NewGenerateReplyCommand creates a command instance.
func NewGenerateReplyCommand(controller replyController, telemetry Telemetry) *GenerateReplyCommand {
	return &GenerateReplyCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[GenerateReplyInput] = (*GenerateReplyCommand)(nil)

// Execute delegates to the reply-assistant controller.
func (c *GenerateReplyCommand) Execute(ctx context.Context, msg GenerateReplyInput) error {
	if c.controller == nil {
		return errors.New("generate-reply command requires controller")
	}
	if msg.OpportunityID == "" {
		return errors.New("generate-reply command requires an opportunity id")
	}
	if _, err := c.controller.GenerateReply(ctx, msg.OpportunityID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.reply.generate", map[string]any{
		"opportunity": msg.OpportunityID,
	})
	return nil
}
