package video

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
)

type fakeGateway struct {
	submitted gateway.VideoRequest
	submitErr error
	// states are served in order on each poll; the last one repeats.
	states   []*gateway.VideoOperation
	pollErr  error
	pollIdx  int
	pollSeen int
}

func (f *fakeGateway) SubmitVideo(_ context.Context, req gateway.VideoRequest) (*gateway.VideoOperation, error) {
	f.submitted = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &gateway.VideoOperation{Handle: "op-1", State: model.JobPending}, nil
}

func (f *fakeGateway) PollVideo(_ context.Context, _ *gateway.VideoOperation) (*gateway.VideoOperation, error) {
	f.pollSeen++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	op := f.states[f.pollIdx]
	if f.pollIdx < len(f.states)-1 {
		f.pollIdx++
	}
	return op, nil
}

func testConfig() model.VideoModelConfig {
	return model.VideoModelConfig{
		Model:        "veo-test",
		Resolution:   "720p",
		AspectRatio:  "16:9",
		PollInterval: "5s",
		MaxPolls:     120,
	}
}

func newTestOrchestrator(t *testing.T, gw Gateway, creds CredentialProvider) (*Orchestrator, *int) {
	t.Helper()
	o, err := NewOrchestrator(gw, creds, testConfig())
	require.NoError(t, err)

	sleeps := 0
	o.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return ctx.Err()
	}
	return o, &sleeps
}

func TestGeneratePollsUntilDone(t *testing.T) {
	// Submission reports pending, then two polls report pending and done:
	// exactly two sleeps, and the done response supplies the URI.
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobPending},
		{Handle: "op-1", State: model.JobDone, ResultURI: "https://video/result"},
	}}
	o, sleeps := newTestOrchestrator(t, gw, &EnvCredential{Key: "k"})

	uri, err := o.Generate(context.Background(), "a sunrise timelapse")

	require.NoError(t, err)
	assert.Equal(t, "https://video/result&key=k", uri)
	assert.Equal(t, 2, gw.pollSeen)
	assert.Equal(t, 2, *sleeps)
	assert.Equal(t, "veo-test", gw.submitted.Model)
	assert.Equal(t, "720p", gw.submitted.Resolution)
	assert.Equal(t, "16:9", gw.submitted.AspectRatio)
}

func TestGenerateFailedJob(t *testing.T) {
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobFailed},
	}}
	o, _ := newTestOrchestrator(t, gw, &EnvCredential{Key: "k"})

	_, err := o.Generate(context.Background(), "prompt")

	assert.True(t, errx.IsGeneration(err))
}

func TestGenerateDoneWithoutURI(t *testing.T) {
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobDone},
	}}
	o, _ := newTestOrchestrator(t, gw, &EnvCredential{Key: "k"})

	_, err := o.Generate(context.Background(), "prompt")

	assert.ErrorIs(t, err, errx.ErrMissingResultURI)
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobRunning},
	}}
	o, err := NewOrchestrator(gw, &EnvCredential{Key: "k"}, testConfig())
	require.NoError(t, err)
	o.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = o.Generate(ctx, "prompt")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, gw.pollSeen)
}

func TestGenerateMaxPollsSafetyBound(t *testing.T) {
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobRunning},
	}}
	o, err := NewOrchestrator(gw, &EnvCredential{Key: "k"}, model.VideoModelConfig{
		Model:        "veo-test",
		PollInterval: "5s",
		MaxPolls:     3,
	})
	require.NoError(t, err)
	o.sleep = func(context.Context, time.Duration) error { return nil }

	_, err = o.Generate(context.Background(), "prompt")

	assert.True(t, errx.IsGeneration(err))
	assert.Equal(t, 3, gw.pollSeen)
}

func TestGenerateRequiresSelectedCredential(t *testing.T) {
	gw := &fakeGateway{}
	o, _ := newTestOrchestrator(t, gw, &EnvCredential{})

	_, err := o.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Empty(t, gw.submitted.Model, "submit must not happen without a selected key")
}

func TestGenerateRunsSelectionOnce(t *testing.T) {
	selections := 0
	creds := &EnvCredential{Select: func(context.Context) (string, error) {
		selections++
		return "picked", nil
	}}
	gw := &fakeGateway{states: []*gateway.VideoOperation{
		{Handle: "op-1", State: model.JobDone, ResultURI: "uri"},
	}}
	o, _ := newTestOrchestrator(t, gw, creds)

	_, err := o.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	_, err = o.Generate(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, 1, selections)
	assert.Equal(t, "picked", creds.APIKey())
}

func TestNewOrchestratorRejectsBadInterval(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = "soon"
	_, err := NewOrchestrator(&fakeGateway{}, &EnvCredential{Key: "k"}, cfg)
	assert.Error(t, err)
}

func TestSleepCtxHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sleepCtx(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitFailurePropagates(t *testing.T) {
	gw := &fakeGateway{submitErr: errx.WrapGeneration(errors.New("down"))}
	o, _ := newTestOrchestrator(t, gw, &EnvCredential{Key: "k"})

	_, err := o.Generate(context.Background(), "prompt")

	assert.True(t, errx.IsGeneration(err))
}
