package image

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
)

type fakeGateway struct {
	lastSpec gateway.RequestSpec
	resp     *gateway.NormalizedResponse
	err      error
}

func (f *fakeGateway) Generate(_ context.Context, spec gateway.RequestSpec) (*gateway.NormalizedResponse, error) {
	f.lastSpec = spec
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testConfig() model.ImageModelConfig {
	return model.ImageModelConfig{
		CreateModel:        "create-model",
		EditModel:          "edit-model",
		DefaultAspectRatio: "1:1",
	}
}

func TestCreateReturnsFirstBinaryPart(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{
		BinaryParts: []gateway.InlineData{
			{MIME: "image/png", Data: []byte{1, 2, 3}},
			{MIME: "image/jpeg", Data: []byte{9}},
		},
	}}
	o := NewOrchestrator(gw, testConfig())

	got, err := o.Create(context.Background(), "a red fox", "16:9")

	require.NoError(t, err)
	assert.Equal(t, model.PayloadBinary, got.Kind)
	assert.Equal(t, "image/png", got.MIME)
	assert.Equal(t, []byte{1, 2, 3}, got.Data)
	assert.Equal(t, "16:9", gw.lastSpec.Params.AspectRatio)
	assert.Equal(t, "create-model", gw.lastSpec.Model)
}

func TestCreateDefaultsAspectRatio(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{
		BinaryParts: []gateway.InlineData{{MIME: "image/png", Data: []byte{1}}},
	}}
	o := NewOrchestrator(gw, testConfig())

	_, err := o.Create(context.Background(), "a red fox", "")

	require.NoError(t, err)
	assert.Equal(t, "1:1", gw.lastSpec.Params.AspectRatio)
}

func TestCreateWithoutBinaryFails(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{Text: "sorry, text only"}}
	o := NewOrchestrator(gw, testConfig())

	_, err := o.Create(context.Background(), "a red fox", "")

	assert.ErrorIs(t, err, errx.ErrNoImageReturned)
}

func TestCreatePropagatesGenerationFailure(t *testing.T) {
	gw := &fakeGateway{err: errx.WrapGeneration(errors.New("quota"))}
	o := NewOrchestrator(gw, testConfig())

	_, err := o.Create(context.Background(), "a red fox", "")

	assert.True(t, errx.IsGeneration(err))
}

func TestEditBinaryResultReplacesImage(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{
		BinaryParts: []gateway.InlineData{{MIME: "image/png", Data: []byte{7}}},
	}}
	o := NewOrchestrator(gw, testConfig())

	got, err := o.Edit(context.Background(), []byte{1}, "image/png", "make it blue")

	require.NoError(t, err)
	assert.Equal(t, model.PayloadBinary, got.Kind)
	assert.Equal(t, []byte{7}, got.Data)

	// The request must carry the image first, then the instruction.
	require.Len(t, gw.lastSpec.Parts, 2)
	assert.Equal(t, []byte{1}, gw.lastSpec.Parts[0].Data)
	assert.Equal(t, "make it blue", gw.lastSpec.Parts[1].Text)
}

func TestEditTextResultIsTaggedText(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{Text: "this image shows a fox"}}
	o := NewOrchestrator(gw, testConfig())

	got, err := o.Edit(context.Background(), []byte{1}, "image/png", "what is this")

	require.NoError(t, err)
	assert.Equal(t, model.PayloadText, got.Kind)
	assert.Equal(t, "this image shows a fox", got.Text)
	assert.Nil(t, got.Data)
}

func TestEditEmptyResponseHasFallbackText(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.NormalizedResponse{}}
	o := NewOrchestrator(gw, testConfig())

	got, err := o.Edit(context.Background(), []byte{1}, "image/png", "noop")

	require.NoError(t, err)
	assert.Equal(t, model.PayloadText, got.Kind)
	assert.NotEmpty(t, got.Text)
}
