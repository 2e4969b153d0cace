package gateway

import (
	"strings"

	"google.golang.org/genai"

	"github.com/ai-for-future/server/internal/studio/model"
)

// Part is one content part of a request: either plain text or an inline
// binary payload (Data non-nil).
type Part struct {
	Text string
	MIME string
	Data []byte
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BinaryPart builds an inline binary content part.
func BinaryPart(data []byte, mime string) Part {
	return Part{MIME: mime, Data: data}
}

// Params carries optional generation parameters. Nil/zero fields are omitted
// from the request.
type Params struct {
	Temperature    *float32
	MaxTokens      int32
	ThinkingBudget *int32
	AspectRatio    string
}

// RequestSpec describes one generate-content request: which model, the system
// instruction, the ordered conversation history, the content parts of the
// final user turn, and optional function declarations and parameters.
type RequestSpec struct {
	Model             string
	SystemInstruction string
	History           []model.ConversationTurn
	Parts             []Part
	Functions         []*genai.FunctionDeclaration
	Params            *Params
}

// InlineData is a normalized binary response part.
type InlineData struct {
	MIME string
	Data []byte
}

// FunctionCall is a normalized function call returned by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// NormalizedResponse is the stable response shape every orchestrator consumes,
// regardless of what mix of text, inline binaries, and function calls the
// service returned.
type NormalizedResponse struct {
	Text          string
	BinaryParts   []InlineData
	FunctionCalls []FunctionCall
}

func roleOf(r model.Role) string {
	if r == model.RoleModel {
		return "model"
	}
	return "user"
}

// contents converts the spec's history plus final parts into genai contents.
func (s RequestSpec) contents() []*genai.Content {
	out := make([]*genai.Content, 0, len(s.History)+1)
	for _, turn := range s.History {
		out = append(out, &genai.Content{
			Role:  roleOf(turn.Role),
			Parts: []*genai.Part{genai.NewPartFromText(turn.Text)},
		})
	}

	parts := make([]*genai.Part, 0, len(s.Parts))
	for _, p := range s.Parts {
		if p.Data != nil {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIME))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	out = append(out, &genai.Content{Role: "user", Parts: parts})
	return out
}

// generationConfig converts the spec's optional knobs into a genai config.
func (s RequestSpec) generationConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if s.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(s.SystemInstruction)},
		}
	}
	if len(s.Functions) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: s.Functions}}
	}
	if s.Params != nil {
		if s.Params.Temperature != nil {
			cfg.Temperature = s.Params.Temperature
		}
		if s.Params.MaxTokens > 0 {
			cfg.MaxOutputTokens = s.Params.MaxTokens
		}
		if s.Params.ThinkingBudget != nil {
			cfg.ThinkingConfig = &genai.ThinkingConfig{
				ThinkingBudget: s.Params.ThinkingBudget,
			}
		}
		if s.Params.AspectRatio != "" {
			cfg.ImageConfig = &genai.ImageConfig{AspectRatio: s.Params.AspectRatio}
		}
	}
	return cfg
}

// normalize flattens the first candidate into the stable response shape.
// Thought parts are excluded from the returned text.
func normalize(resp *genai.GenerateContentResponse) *NormalizedResponse {
	out := &NormalizedResponse{}
	if resp == nil || len(resp.Candidates) == 0 {
		return out
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return out
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
		if part.InlineData != nil {
			out.BinaryParts = append(out.BinaryParts, InlineData{
				MIME: part.InlineData.MIMEType,
				Data: part.InlineData.Data,
			})
		}
		if part.FunctionCall != nil {
			out.FunctionCalls = append(out.FunctionCalls, FunctionCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}
	out.Text = text.String()
	return out
}
