package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/generate"
)

type generateController interface {
	GenerateScript(ctx context.Context, req generate.ScriptRequest) (generate.ScriptResult, error)
	GenerateTitleTags(ctx context.Context, req generate.TitleTagsRequest) (generate.TitleTagsResult, error)
}

// GenerateScriptCommand wraps the script form for transports.
type GenerateScriptCommand struct {
	controller generateController
	telemetry  Telemetry
}

// NewGenerateScriptCommand creates a command instance.
func NewGenerateScriptCommand(controller generateController, telemetry Telemetry) *GenerateScriptCommand {
	return &GenerateScriptCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[generate.ScriptRequest] = (*GenerateScriptCommand)(nil)

// Execute delegates to the generation controller.
func (c *GenerateScriptCommand) Execute(ctx context.Context, msg generate.ScriptRequest) error {
	if c.controller == nil {
		return errors.New("generate-script command requires controller")
	}
	if _, err := c.controller.GenerateScript(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.script.generate", map[string]any{"topic": msg.Topic})
	return nil
}

// GenerateTitleTagsCommand wraps the title/tag form for transports.
type GenerateTitleTagsCommand struct {
	controller generateController
	telemetry  Telemetry
}

// NewGenerateTitleTagsCommand creates a command instance.
func NewGenerateTitleTagsCommand(controller generateController, telemetry Telemetry) *GenerateTitleTagsCommand {
	return &GenerateTitleTagsCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[generate.TitleTagsRequest] = (*GenerateTitleTagsCommand)(nil)

// Execute delegates to the generation controller.
func (c *GenerateTitleTagsCommand) Execute(ctx context.Context, msg generate.TitleTagsRequest) error {
	if c.controller == nil {
		return errors.New("generate-titles command requires controller")
	}
	if _, err := c.controller.GenerateTitleTags(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "studio.titles.generate", map[string]any{"topic": msg.Topic})
	return nil
}
