package video

import (
	"context"
	"fmt"
	"time"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// Gateway is the slice of the model gateway the video orchestrator needs.
type Gateway interface {
	SubmitVideo(ctx context.Context, req gateway.VideoRequest) (*gateway.VideoOperation, error)
	PollVideo(ctx context.Context, op *gateway.VideoOperation) (*gateway.VideoOperation, error)
}

// Orchestrator submits a video generation job and polls it to a terminal
// state. Polling suspends only the calling goroutine and stops promptly when
// the caller's context is cancelled.
type Orchestrator struct {
	gw           Gateway
	creds        CredentialProvider
	cfg          model.VideoModelConfig
	pollInterval time.Duration

	// sleep is swapped in tests to count suspensions without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(gw Gateway, creds CredentialProvider, cfg model.VideoModelConfig) (*Orchestrator, error) {
	interval, err := time.ParseDuration(cfg.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid video poll interval %q: %w", cfg.PollInterval, err)
	}
	return &Orchestrator{
		gw:           gw,
		creds:        creds,
		cfg:          cfg,
		pollInterval: interval,
		sleep:        sleepCtx,
	}, nil
}

// Generate runs the full job lifecycle and returns the result URI with the
// API key appended so the artifact is fetchable by the caller.
func (o *Orchestrator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := o.creds.EnsureSelected(ctx); err != nil {
		return "", err
	}

	op, err := o.gw.SubmitVideo(ctx, gateway.VideoRequest{
		Model:       o.cfg.Model,
		Prompt:      prompt,
		Resolution:  o.cfg.Resolution,
		AspectRatio: o.cfg.AspectRatio,
	})
	if err != nil {
		return "", err
	}
	logx.Info().Str("handle", op.Handle).Msg("Polling video job")

	polls := 0
	for !op.State.Terminal() {
		if o.cfg.MaxPolls > 0 && polls >= o.cfg.MaxPolls {
			return "", errx.WrapGeneration(fmt.Errorf("video job %s not finished after %d polls", op.Handle, polls))
		}
		if err := o.sleep(ctx, o.pollInterval); err != nil {
			return "", err
		}
		polls++

		op, err = o.gw.PollVideo(ctx, op)
		if err != nil {
			return "", err
		}
		logx.Debug().Str("handle", op.Handle).Str("state", string(op.State)).Int("polls", polls).Msg("Video job state")
	}

	if op.State == model.JobFailed {
		return "", errx.WrapGeneration(op.FailureCause())
	}
	if op.ResultURI == "" {
		return "", errx.ErrMissingResultURI
	}

	uri := op.ResultURI
	if key := o.creds.APIKey(); key != "" {
		uri = uri + "&key=" + key
	}
	return uri, nil
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
