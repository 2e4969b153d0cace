package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	errx "github.com/ai-for-future/server/internal/core/error"
	"github.com/ai-for-future/server/internal/studio/gateway"
	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// ToolControlDevice is the single function the model may call.
const ToolControlDevice = "control_device"

const (
	// noCommandFallback is returned for responses that carry neither a
	// function call nor text.
	noCommandFallback = "I didn't understand the device command."
	// failureFallback hides transport errors; device control is a
	// conversational surface.
	failureFallback = "Failed to execute device control."
)

func controlDeviceDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        ToolControlDevice,
		Description: "Control smart home devices or computers. Turn them on, off, lock, unlock, or set values.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"deviceName": {
					Type:        genai.TypeString,
					Description: "Name of the device (e.g., 'Kitchen Light', 'Main Laptop', 'Front Door').",
				},
				"action": {
					Type:        genai.TypeString,
					Enum:        []string{"turn_on", "turn_off", "lock", "unlock", "set_value"},
					Description: "Action to perform.",
				},
				"value": {
					Type:        genai.TypeNumber,
					Description: "Value for 'set_value' action (e.g., brightness 0-100, temperature).",
				},
			},
			Required: []string{"deviceName", "action"},
		},
	}
}

// Dispatch is the atomic result of interpreting one utterance: a
// human-readable message, plus the state mutation when a device command was
// recognised. The interpreter never mutates the registry itself.
type Dispatch struct {
	Message string            `json:"message"`
	Diff    *model.DeviceDiff `json:"diff,omitempty"`
}

// Gateway is the slice of the model gateway the interpreter needs.
type Gateway interface {
	Generate(ctx context.Context, spec gateway.RequestSpec) (*gateway.NormalizedResponse, error)
}

// Interpreter turns free-form device-control utterances into structured
// dispatches using the model's function-calling contract.
type Interpreter struct {
	gw  Gateway
	cfg model.DeviceModelConfig
}

func NewInterpreter(gw Gateway, cfg model.DeviceModelConfig) *Interpreter {
	return &Interpreter{gw: gw, cfg: cfg}
}

// Interpret sends the current device list plus the utterance to the model.
// When the model calls control_device, only the first call is honoured;
// additional calls are ignored. An unresolved device name returns both a
// message naming the query and a DeviceNotFoundError.
func (i *Interpreter) Interpret(ctx context.Context, utterance string, devices []model.Device) (Dispatch, error) {
	serialized, err := json.Marshal(devices)
	if err != nil {
		return Dispatch{}, fmt.Errorf("serialize device state: %w", err)
	}

	resp, err := i.gw.Generate(ctx, gateway.RequestSpec{
		Model: i.cfg.Model,
		Parts: []gateway.Part{
			gateway.TextPart(fmt.Sprintf("Current devices state: %s. User Request: %s", serialized, utterance)),
		},
		Functions: []*genai.FunctionDeclaration{controlDeviceDeclaration()},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Device command generation failed")
		return Dispatch{Message: failureFallback}, nil
	}

	if len(resp.FunctionCalls) == 0 {
		if resp.Text == "" {
			return Dispatch{Message: noCommandFallback}, nil
		}
		return Dispatch{Message: resp.Text}, nil
	}
	if len(resp.FunctionCalls) > 1 {
		logx.Warn().Int("calls", len(resp.FunctionCalls)).Msg("Ignoring function calls beyond the first")
	}

	intent := parseIntent(resp.FunctionCalls[0])
	target, ok := resolve(devices, intent.TargetNameQuery)
	if !ok {
		return Dispatch{Message: fmt.Sprintf("I couldn't find a device named %s.", intent.TargetNameQuery)},
			&errx.DeviceNotFoundError{Query: intent.TargetNameQuery}
	}
	return dispatch(intent, target), nil
}

// parseIntent extracts the structured intent from a control_device call.
func parseIntent(call gateway.FunctionCall) model.DeviceIntent {
	intent := model.DeviceIntent{}
	if name, ok := call.Args["deviceName"].(string); ok {
		intent.TargetNameQuery = name
	}
	if action, ok := call.Args["action"].(string); ok {
		intent.Action = model.DeviceAction(action)
	}
	switch v := call.Args["value"].(type) {
	case float64:
		intent.Value = &v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			intent.Value = &f
		}
	}
	return intent
}

// resolve picks the first registry entry whose name contains the query or is
// contained by it, case-insensitively.
func resolve(devices []model.Device, query string) (model.Device, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return model.Device{}, false
	}
	for _, d := range devices {
		name := strings.ToLower(d.Name)
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return d, true
		}
	}
	return model.Device{}, false
}

func dispatch(intent model.DeviceIntent, target model.Device) Dispatch {
	status := func(s model.DeviceStatus) *model.DeviceStatus { return &s }

	switch intent.Action {
	case model.ActionTurnOn:
		return Dispatch{
			Message: fmt.Sprintf("Turning on %s.", target.Name),
			Diff:    &model.DeviceDiff{DeviceID: target.ID, Status: status(model.StatusOn)},
		}
	case model.ActionTurnOff:
		return Dispatch{
			Message: fmt.Sprintf("Turning off %s.", target.Name),
			Diff:    &model.DeviceDiff{DeviceID: target.ID, Status: status(model.StatusOff)},
		}
	case model.ActionLock:
		return Dispatch{
			Message: fmt.Sprintf("Locking %s.", target.Name),
			Diff:    &model.DeviceDiff{DeviceID: target.ID, Status: status(model.StatusLocked)},
		}
	case model.ActionUnlock:
		return Dispatch{
			Message: fmt.Sprintf("Unlocking %s.", target.Name),
			Diff:    &model.DeviceDiff{DeviceID: target.ID, Status: status(model.StatusUnlocked)},
		}
	case model.ActionSetValue:
		if intent.Value == nil {
			return Dispatch{Message: fmt.Sprintf("No value provided for %s.", target.Name)}
		}
		return Dispatch{
			Message: fmt.Sprintf("Setting %s to %v.", target.Name, *intent.Value),
			Diff:    &model.DeviceDiff{DeviceID: target.ID, Value: *intent.Value},
		}
	default:
		return Dispatch{Message: noCommandFallback}
	}
}
