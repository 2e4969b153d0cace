package image

import (
	"context"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// Gateway is the slice of the model gateway the image orchestrator needs.
type Gateway interface {
	Generate(ctx context.Context, spec gateway.RequestSpec) (*gateway.NormalizedResponse, error)
}

// Orchestrator drives the image create and edit flows.
type Orchestrator struct {
	gw  Gateway
	cfg model.ImageModelConfig
}

func NewOrchestrator(gw Gateway, cfg model.ImageModelConfig) *Orchestrator {
	return &Orchestrator{gw: gw, cfg: cfg}
}

// Create generates a new image from prompt. A response without a binary part
// fails with ErrNoImageReturned; that error is terminal, never retried.
func (o *Orchestrator) Create(ctx context.Context, prompt, aspectRatio string) (model.ImagePayload, error) {
	if aspectRatio == "" {
		aspectRatio = o.cfg.DefaultAspectRatio
	}

	resp, err := o.gw.Generate(ctx, gateway.RequestSpec{
		Model:  o.cfg.CreateModel,
		Parts:  []gateway.Part{gateway.TextPart(prompt)},
		Params: &gateway.Params{AspectRatio: aspectRatio},
	})
	if err != nil {
		return model.ImagePayload{}, err
	}
	if len(resp.BinaryParts) == 0 {
		logx.Warn().Str("model", o.cfg.CreateModel).Msg("Image create returned no binary part")
		return model.ImagePayload{}, errx.ErrNoImageReturned
	}

	first := resp.BinaryParts[0]
	return model.ImagePayload{Kind: model.PayloadBinary, MIME: first.MIME, Data: first.Data}, nil
}

// Edit sends the working image plus the instruction text in one multi-part
// request. The service may answer with a new image or with a textual
// analysis; the tagged payload tells the caller which. A text result must
// never replace the caller's working image.
func (o *Orchestrator) Edit(ctx context.Context, imageData []byte, mime, prompt string) (model.ImagePayload, error) {
	resp, err := o.gw.Generate(ctx, gateway.RequestSpec{
		Model: o.cfg.EditModel,
		Parts: []gateway.Part{
			gateway.BinaryPart(imageData, mime),
			gateway.TextPart(prompt),
		},
	})
	if err != nil {
		return model.ImagePayload{}, err
	}

	if len(resp.BinaryParts) > 0 {
		first := resp.BinaryParts[0]
		return model.ImagePayload{Kind: model.PayloadBinary, MIME: first.MIME, Data: first.Data}, nil
	}

	text := resp.Text
	if text == "" {
		text = "Processed image request."
	}
	logx.Debug().Str("model", o.cfg.EditModel).Msg("Image edit answered with text")
	return model.ImagePayload{Kind: model.PayloadText, Text: text}, nil
}
