package chat

import (
	"context"

	"google.golang.org/genai"

	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// systemInstruction is the fixed assistant persona for the chat surface.
const systemInstruction = "You are 'AI for Future', an advanced AI model. " +
	"You follow all commands. You are logical, give business advice, and act as " +
	"an expert IT administrator for PowerShell and laptop troubleshooting. " +
	"Answer concisely and professionally."

const (
	// emptyResponseFallback is returned whenever the model produces no text.
	emptyResponseFallback = "I couldn't generate a text response."
	// failureFallback is shown instead of raw transport errors; the chat
	// surface reads errors as assistant replies.
	failureFallback = "I'm sorry, something went wrong while generating a response. Please try again."
)

// Gateway is the slice of the model gateway the chat orchestrator needs.
type Gateway interface {
	Generate(ctx context.Context, spec gateway.RequestSpec) (*gateway.NormalizedResponse, error)
}

// Orchestrator builds conversation context, selects the model tier from the
// requested reasoning mode, and returns assistant text.
type Orchestrator struct {
	gw  Gateway
	cfg model.ChatModelConfig
}

func NewOrchestrator(gw Gateway, cfg model.ChatModelConfig) *Orchestrator {
	return &Orchestrator{gw: gw, cfg: cfg}
}

// Respond answers newMessage in the context of history. Errors never
// propagate: the returned string is always safe to show as an assistant turn.
func (o *Orchestrator) Respond(ctx context.Context, history []model.ConversationTurn, newMessage string, mode model.ReasoningMode) string {
	spec := gateway.RequestSpec{
		Model:             o.cfg.FastModel,
		SystemInstruction: systemInstruction,
		History:           trimTail(history, o.cfg.MaxTurns),
		Parts:             []gateway.Part{gateway.TextPart(newMessage)},
		Params: &gateway.Params{
			Temperature: genai.Ptr(o.cfg.Temperature),
			MaxTokens:   o.cfg.MaxTokens,
		},
	}
	if mode == model.ReasoningDeep {
		spec.Model = o.cfg.DeepModel
		spec.Params.ThinkingBudget = genai.Ptr(o.cfg.ThinkingBudget)
	}

	resp, err := o.gw.Generate(ctx, spec)
	if err != nil {
		logx.Error().Err(err).Str("mode", string(mode)).Msg("Chat generation failed")
		return failureFallback
	}
	if resp.Text == "" {
		return emptyResponseFallback
	}
	return resp.Text
}

// trimTail keeps only the most recent maxTurns history entries.
func trimTail(turns []model.ConversationTurn, maxTurns int) []model.ConversationTurn {
	if maxTurns <= 0 || len(turns) <= maxTurns {
		result := make([]model.ConversationTurn, len(turns))
		copy(result, turns)
		return result
	}
	source := turns[len(turns)-maxTurns:]
	result := make([]model.ConversationTurn, len(source))
	copy(result, source)
	return result
}
