package codec

import (
	"encoding/json"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/mcpuierrors"
)

type envelope struct {
	Type action.Type `json:"type"`
}

// Classify validates origin and schema-checks raw against the payload
// shape registered for its declared type, returning a fully-typed
// action.Message on success. It never panics: any violation — an
// untrusted origin, malformed JSON, an unrecognized type, a
// schema-mismatched payload, or an inbound "response" (host-to-guest
// only) — comes back as a typed *mcpuierrors.Error so the caller can log
// and drop rather than propagate a crash into the dispatcher.
func Classify(origin string, raw []byte) (*action.Message, error) {
	if !ClassifyOrigin(origin) {
		return nil, mcpuierrors.NewInvalidOriginError("message origin "+origin+" is not trusted", nil)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, mcpuierrors.NewMalformedMessageError("message is not valid JSON", err)
	}

	if env.Type == action.TypeResponse {
		return nil, mcpuierrors.NewMalformedMessageError("response messages are host-to-guest only", nil)
	}

	if err := validateShape(string(env.Type), raw); err != nil {
		return nil, mcpuierrors.NewMalformedMessageError(err.Error(), err)
	}

	msg, err := decode(env.Type, raw)
	if err != nil {
		return nil, mcpuierrors.NewMalformedMessageError(err.Error(), err)
	}
	return msg, nil
}

func decode(t action.Type, raw []byte) (*action.Message, error) {
	switch t {
	case action.TypeTool:
		var p action.ToolPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &action.Message{Type: t, RequestID: p.RequestID, Tool: &p}, nil
	case action.TypeNotify:
		var p action.NotifyPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &action.Message{Type: t, Notify: &p}, nil
	case action.TypeLink:
		var p action.LinkPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &action.Message{Type: t, Link: &p}, nil
	case action.TypePrompt:
		var p action.PromptPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &action.Message{Type: t, RequestID: p.RequestID, Prompt: &p}, nil
	case action.TypeIntent:
		var p action.IntentPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &action.Message{Type: t, Intent: &p}, nil
	default:
		return nil, errUnknownType(string(t))
	}
}
