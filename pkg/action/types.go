// Package action defines the wire and domain types that flow between a
// guest Frame and the host dispatcher: the ActionMessage envelope and its
// typed payloads, ActionResult, ToolDescriptor, and the Remote-DOM tree
// types (RemoteNode, DomDiff).
package action

import (
	"encoding/json"
	"fmt"
)

// Type identifies the shape of an ActionMessage's payload.
type Type string

// The five inbound action types plus the host-only outbound response type.
const (
	TypeTool     Type = "tool"
	TypeNotify   Type = "notify"
	TypeLink     Type = "link"
	TypePrompt   Type = "prompt"
	TypeIntent   Type = "intent"
	TypeResponse Type = "response"
)

// NotifyLevel is the severity of a notify action.
type NotifyLevel string

// Recognized notify levels.
const (
	NotifyInfo    NotifyLevel = "info"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
	NotifySuccess NotifyLevel = "success"
)

// LinkTarget is the window target of a link action.
type LinkTarget string

// Recognized link targets.
const (
	LinkTargetBlank LinkTarget = "_blank"
	LinkTargetSelf  LinkTarget = "_self"
)

// ToolPayload is the payload of a "tool" action.
type ToolPayload struct {
	ToolName  string         `json:"toolName"`
	Args      map[string]any `json:"args"`
	RequestID string         `json:"requestId"`
}

// NotifyPayload is the payload of a "notify" action.
type NotifyPayload struct {
	Level   NotifyLevel `json:"level"`
	Message string      `json:"message"`
}

// LinkPayload is the payload of a "link" action.
type LinkPayload struct {
	URL    string      `json:"url"`
	Target *LinkTarget `json:"target,omitempty"`
}

// PromptPayload is the payload of a "prompt" action.
type PromptPayload struct {
	Text         string  `json:"text"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	RequestID    string  `json:"requestId"`
}

// IntentPayload is the payload of an "intent" action.
type IntentPayload struct {
	Intent string         `json:"intent"`
	Data   map[string]any `json:"data,omitempty"`
}

// ResponsePayload is the payload of a host-to-guest "response" message.
// Guests must never send this type inbound; the codec rejects it.
type ResponsePayload struct {
	RequestID string `json:"requestId"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Message is a fully-validated, typed ActionMessage. Exactly one payload
// field is populated, selected by Type.
type Message struct {
	Type      Type
	RequestID string

	Tool     *ToolPayload
	Notify   *NotifyPayload
	Link     *LinkPayload
	Prompt   *PromptPayload
	Intent   *IntentPayload
	Response *ResponsePayload
}

// wireMessage is the envelope shape used for both directions on the wire,
// per spec.md §6.2: { type, payload fields..., requestId }. This module
// flattens the payload into the envelope rather than nesting it under a
// "payload" key, matching the literal field names in spec.md §6.2's inbound
// and outbound examples (toolName/args/requestId sit directly on the
// message object, not under a nested "payload").
type wireMessage struct {
	Type Type `json:"type"`

	// tool / prompt
	ToolName     string         `json:"toolName,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
	Text         string         `json:"text,omitempty"`
	DefaultValue *string        `json:"defaultValue,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`

	// notify
	Level   NotifyLevel `json:"level,omitempty"`
	Message string      `json:"message,omitempty"`

	// link
	URL    string      `json:"url,omitempty"`
	Target *LinkTarget `json:"target,omitempty"`

	// intent
	Intent string         `json:"intent,omitempty"`
	Data   map[string]any `json:"data,omitempty"`

	// response (host -> guest only)
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	RawData any    `json:"data,omitempty"`
}

// MarshalJSON renders m onto the wire envelope shape.
func (m *Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{Type: m.Type}

	switch m.Type {
	case TypeTool:
		if m.Tool == nil {
			return nil, fmt.Errorf("action: tool message missing payload")
		}
		w.ToolName, w.Args, w.RequestID = m.Tool.ToolName, m.Tool.Args, m.Tool.RequestID
	case TypePrompt:
		if m.Prompt == nil {
			return nil, fmt.Errorf("action: prompt message missing payload")
		}
		w.Text, w.DefaultValue, w.RequestID = m.Prompt.Text, m.Prompt.DefaultValue, m.Prompt.RequestID
	case TypeNotify:
		if m.Notify == nil {
			return nil, fmt.Errorf("action: notify message missing payload")
		}
		w.Level, w.Message = m.Notify.Level, m.Notify.Message
	case TypeLink:
		if m.Link == nil {
			return nil, fmt.Errorf("action: link message missing payload")
		}
		w.URL, w.Target = m.Link.URL, m.Link.Target
	case TypeIntent:
		if m.Intent == nil {
			return nil, fmt.Errorf("action: intent message missing payload")
		}
		w.Intent, w.Data = m.Intent.Intent, m.Intent.Data
	case TypeResponse:
		if m.Response == nil {
			return nil, fmt.Errorf("action: response message missing payload")
		}
		w.RequestID, w.Success, w.RawData, w.Error = m.Response.RequestID, m.Response.Success, m.Response.Data, m.Response.Error
	default:
		return nil, fmt.Errorf("action: unknown message type %q", m.Type)
	}

	return json.Marshal(w)
}

// NewResponseMessage builds the host-to-guest "response" envelope for a
// settled PendingRequest.
func NewResponseMessage(requestID string, result Result) *Message {
	return &Message{
		Type: TypeResponse,
		Response: &ResponsePayload{
			RequestID: requestID,
			Success:   result.Success,
			Data:      result.Data,
			Error:     result.Error,
		},
	}
}

// Result is the immutable outcome of handling an action. Construct via
// NewSuccessResult / NewErrorResult; there are no setters.
type Result struct {
	Success bool
	Data    any
	Error   string
}

// NewSuccessResult builds a successful Result carrying data.
func NewSuccessResult(data any) Result {
	return Result{Success: true, Data: data}
}

// NewErrorResult builds a failed Result carrying a diagnostic message.
func NewErrorResult(errMsg string) Result {
	return Result{Success: false, Error: errMsg}
}

// ToolDescriptor is the external handle exposed by the host's tool runtime.
// The core depends only on the invocation contract (toolbridge.Runtime);
// this struct is descriptive metadata only.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}
