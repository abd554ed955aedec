package codec

import (
	"testing"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/mcpuierrors"
)

func TestClassifyOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"null", true},
		{"https://example.com", true},
		{"https://anything.example.com:8443", true},
		{"http://localhost", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1", true},
		{"http://127.0.0.1:8080", true},
		{"http://evil.example.com", false},
		{"file:///etc/passwd", false},
		{"data:text/html,hi", false},
		{"javascript:alert(1)", false},
		{"not a url at all \x00", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := ClassifyOrigin(tt.origin); got != tt.want {
				t.Errorf("ClassifyOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestClassify_ValidTool(t *testing.T) {
	raw := []byte(`{"type":"tool","toolName":"search","args":{"q":"cats"},"requestId":"req-1"}`)

	msg, err := Classify("https://guest.example.com", raw)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if msg.Type != action.TypeTool {
		t.Errorf("Type = %v, want tool", msg.Type)
	}
	if msg.Tool.ToolName != "search" {
		t.Errorf("ToolName = %v, want search", msg.Tool.ToolName)
	}
}

func TestClassify_RejectsUntrustedOrigin(t *testing.T) {
	raw := []byte(`{"type":"notify","level":"info","message":"hi"}`)

	_, err := Classify("http://evil.example.com", raw)
	if !mcpuierrors.IsInvalidOrigin(err) {
		t.Errorf("Classify() error = %v, want invalid_origin", err)
	}
}

func TestClassify_RejectsMalformedJSON(t *testing.T) {
	_, err := Classify("null", []byte("not json"))
	if !mcpuierrors.IsMalformedMessage(err) {
		t.Errorf("Classify() error = %v, want malformed_message", err)
	}
}

func TestClassify_RejectsInboundResponse(t *testing.T) {
	raw := []byte(`{"type":"response","requestId":"req-1","success":true}`)

	_, err := Classify("null", raw)
	if !mcpuierrors.IsMalformedMessage(err) {
		t.Errorf("Classify() error = %v, want malformed_message for inbound response", err)
	}
}

func TestClassify_RejectsSchemaViolation(t *testing.T) {
	// missing required "toolName"
	raw := []byte(`{"type":"tool","args":{},"requestId":"req-1"}`)

	_, err := Classify("null", raw)
	if !mcpuierrors.IsMalformedMessage(err) {
		t.Errorf("Classify() error = %v, want malformed_message", err)
	}
}

func TestClassify_ValidNotifyLinkPromptIntent(t *testing.T) {
	cases := []string{
		`{"type":"notify","level":"warning","message":"careful"}`,
		`{"type":"link","url":"https://example.com","target":"_blank"}`,
		`{"type":"prompt","text":"enter name","requestId":"req-2"}`,
		`{"type":"intent","intent":"refresh","data":{"n":1}}`,
	}

	for _, raw := range cases {
		if _, err := Classify("null", []byte(raw)); err != nil {
			t.Errorf("Classify(%s) error = %v", raw, err)
		}
	}
}
