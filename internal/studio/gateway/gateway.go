package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// Config holds the connection settings for the Gemini API.
type Config struct {
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
}

// Client is a stateless façade over the Gemini API. It issues single-shot
// requests and normalizes every response and error shape; retry policy belongs
// to callers that know the semantics.
type Client struct {
	genai *genai.Client
}

// New creates a gateway client against the Gemini API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return &Client{genai: client}, nil
}

// Generate issues one generate-content request and returns the normalized
// response. Any provider failure is wrapped into a single GenerationError.
func (c *Client) Generate(ctx context.Context, spec RequestSpec) (*NormalizedResponse, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, spec.Model, spec.contents(), spec.generationConfig())
	if err != nil {
		logx.Error().Err(err).Str("model", spec.Model).Msg("Generate content failed")
		return nil, errx.WrapGeneration(err)
	}

	out := normalize(resp)
	logx.Debug().
		Str("model", spec.Model).
		Int("binary_parts", len(out.BinaryParts)).
		Int("function_calls", len(out.FunctionCalls)).
		Bool("has_text", out.Text != "").
		Msg("Generate content completed")
	return out, nil
}

// VideoRequest describes one video generation job submission.
type VideoRequest struct {
	Model       string
	Prompt      string
	Resolution  string
	AspectRatio string
}

// VideoOperation is the normalized view of a long-running video job. Handle
// identifies the job at the service; State only moves forward.
type VideoOperation struct {
	Handle    string
	State     model.JobState
	ResultURI string

	raw *genai.GenerateVideosOperation
}

// SubmitVideo creates a video generation job. A freshly created job that has
// not completed reports pending.
func (c *Client) SubmitVideo(ctx context.Context, req VideoRequest) (*VideoOperation, error) {
	op, err := c.genai.Models.GenerateVideos(ctx, req.Model, req.Prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     req.Resolution,
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", req.Model).Msg("Video job submission failed")
		return nil, errx.WrapGeneration(err)
	}
	vo := fromOperation(op, model.JobPending)
	logx.Info().Str("handle", vo.Handle).Str("state", string(vo.State)).Msg("Video job submitted")
	return vo, nil
}

// PollVideo re-queries the job status by handle and returns the updated view.
func (c *Client) PollVideo(ctx context.Context, op *VideoOperation) (*VideoOperation, error) {
	if op == nil || op.raw == nil {
		return nil, errx.WrapGeneration(fmt.Errorf("poll on unknown video operation"))
	}
	updated, err := c.genai.Operations.GetVideosOperation(ctx, op.raw, nil)
	if err != nil {
		logx.Error().Err(err).Str("handle", op.Handle).Msg("Video job poll failed")
		return nil, errx.WrapGeneration(err)
	}
	return fromOperation(updated, model.JobRunning), nil
}

func fromOperation(op *genai.GenerateVideosOperation, nonTerminal model.JobState) *VideoOperation {
	vo := &VideoOperation{Handle: op.Name, raw: op}
	if !op.Done {
		vo.State = nonTerminal
		return vo
	}
	if len(op.Error) > 0 {
		vo.State = model.JobFailed
		return vo
	}
	vo.State = model.JobDone
	if op.Response != nil && len(op.Response.GeneratedVideos) > 0 {
		if v := op.Response.GeneratedVideos[0].Video; v != nil {
			vo.ResultURI = v.URI
		}
	}
	return vo
}

// FailureCause extracts the service-reported error of a failed operation.
func (v *VideoOperation) FailureCause() error {
	if v.raw != nil && len(v.raw.Error) > 0 {
		return fmt.Errorf("video job failed: %v", v.raw.Error)
	}
	return fmt.Errorf("video job failed")
}
