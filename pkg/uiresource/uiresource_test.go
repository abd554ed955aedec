package uiresource

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       UIResource
		wantErr bool
	}{
		{
			name: "valid html text resource",
			r:    UIResource{URI: "ui://widget/1", MIMEType: MIMETextHTML, Text: "<div></div>"},
		},
		{
			name: "valid remote dom blob resource",
			r:    UIResource{URI: "ui://widget/2", MIMEType: MIMERemoteDOM, Blob: []byte("{}")},
		},
		{
			name:    "empty URI",
			r:       UIResource{MIMEType: MIMETextHTML, Text: "<div></div>"},
			wantErr: true,
		},
		{
			name:    "unrecognized MIME type",
			r:       UIResource{URI: "ui://widget/1", MIMEType: "text/plain", Text: "hi"},
			wantErr: true,
		},
		{
			name:    "no content",
			r:       UIResource{URI: "ui://widget/1", MIMEType: MIMETextHTML},
			wantErr: true,
		},
		{
			name: "both text and blob, text wins without error",
			r:    UIResource{URI: "ui://widget/1", MIMEType: MIMETextHTML, Text: "<div></div>", Blob: []byte("ignored")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContent_PrefersText(t *testing.T) {
	r := UIResource{URI: "ui://widget/1", MIMEType: MIMETextHTML, Text: "<div></div>", Blob: []byte("ignored")}

	text, blob, isText := r.Content()
	if !isText || text != "<div></div>" || blob != nil {
		t.Errorf("Content() = (%q, %v, %v), want text content preferred", text, blob, isText)
	}
}

func TestPreferredFrameSize(t *testing.T) {
	r := UIResource{
		Meta: map[string]any{
			"preferred-frame-size": map[string]any{"width": 400, "height": 300.0},
		},
	}

	w, h, ok := r.PreferredFrameSize()
	if !ok || w != 400 || h != 300 {
		t.Errorf("PreferredFrameSize() = (%d, %d, %v), want (400, 300, true)", w, h, ok)
	}

	var empty UIResource
	if _, _, ok := empty.PreferredFrameSize(); ok {
		t.Error("PreferredFrameSize() on empty resource ok = true, want false")
	}
}

func TestToolWhitelist(t *testing.T) {
	r := UIResource{
		Meta: map[string]any{"tools": []any{"search", "lookup"}},
	}

	got := r.ToolWhitelist()
	if len(got) != 2 || got[0] != "search" || got[1] != "lookup" {
		t.Errorf("ToolWhitelist() = %v, want [search lookup]", got)
	}

	var empty UIResource
	if got := empty.ToolWhitelist(); got != nil {
		t.Errorf("ToolWhitelist() on empty resource = %v, want nil", got)
	}
}
