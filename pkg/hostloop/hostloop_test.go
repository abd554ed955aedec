package hostloop_test

import (
	"context"
	"testing"
	"time"

	"github.com/stacklok/mcpui/pkg/hostloop"
	"github.com/stacklok/mcpui/pkg/render/renderfake"
	"github.com/stacklok/mcpui/pkg/toolbridge"
	"github.com/stacklok/mcpui/pkg/uiresource"
)

type stubRuntime struct{ called bool }

func (s *stubRuntime) Invoke(_ context.Context, _ string, args map[string]any) (any, error) {
	s.called = true
	return map[string]any{"echo": args}, nil
}

func TestLoop_MountAndEndToEndToolCall(t *testing.T) {
	host := renderfake.NewHost()
	rt := &stubRuntime{}
	bridge := toolbridge.NewBridge(rt)
	loop := hostloop.New(host, bridge, hostloop.Options{})

	resource := &uiresource.UIResource{
		URI:      "ui://widget/1",
		MIMEType: uiresource.MIMETextHTML,
		Text:     "<div>hi</div>",
		Meta:     map[string]any{"tools": []any{"search"}},
	}

	handle, err := loop.Mount(context.Background(), resource)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer handle.Dispose()

	fake := host.Frames[0]
	fake.SendFromGuest([]byte(`{"type":"tool","toolName":"search","args":{"q":"cats"},"requestId":"req-1"}`))

	select {
	case evt := <-loop.Results():
		if evt.RequestID != "req-1" {
			t.Errorf("RequestID = %v, want req-1", evt.RequestID)
		}
		if !evt.Result.Success {
			t.Errorf("Result.Success = false, error = %v", evt.Result.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a ResultEvent")
	}

	if !rt.called {
		t.Error("tool runtime was never invoked")
	}
}

func TestLoop_NotifyEmitsNotification(t *testing.T) {
	host := renderfake.NewHost()
	bridge := toolbridge.NewBridge(&stubRuntime{})
	loop := hostloop.New(host, bridge, hostloop.Options{})

	resource := &uiresource.UIResource{URI: "ui://widget/2", MIMEType: uiresource.MIMETextHTML, Text: "<div></div>"}
	handle, err := loop.Mount(context.Background(), resource)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer handle.Dispose()

	fake := host.Frames[0]
	fake.SendFromGuest([]byte(`{"type":"notify","level":"info","message":"hello"}`))

	select {
	case evt := <-loop.Notifications():
		if evt.Payload.Message != "hello" {
			t.Errorf("Message = %v, want hello", evt.Payload.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a NotifyEvent")
	}
}

type fakeSink struct{ created []string }

func (f *fakeSink) CreateElement(id, _ string) error { f.created = append(f.created, id); return nil }
func (f *fakeSink) SetProp(_, _ string, _ any) error  { return nil }
func (f *fakeSink) SetText(_, _ string) error         { return nil }
func (f *fakeSink) AppendChild(_, _ string) error     { return nil }
func (f *fakeSink) RemoveElement(_ string) error      { return nil }

func TestLoop_MountRemoteDOMReconcilesFromGuest(t *testing.T) {
	host := renderfake.NewHost()
	bridge := toolbridge.NewBridge(&stubRuntime{})
	sink := &fakeSink{}
	loop := hostloop.New(host, bridge, hostloop.Options{RemoteDOMSink: sink})

	resource := &uiresource.UIResource{
		URI:      "ui://widget/4",
		MIMEType: uiresource.MIMERemoteDOM,
		Text:     "root.appendChild(button)",
	}

	handle, err := loop.Mount(context.Background(), resource)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer handle.Dispose()

	fake := host.Frames[0]
	fake.SendFromGuest([]byte(`{"root":{"id":"n1","type":"button","props":{"onClick":"clicked"}}}`))

	deadline := time.After(2 * time.Second)
	for {
		if len(sink.created) > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for remote-dom materialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if sink.created[0] != "n1" {
		t.Errorf("created[0] = %v, want n1", sink.created[0])
	}
}

func TestLoop_MountRemoteDOMWithoutSinkFails(t *testing.T) {
	host := renderfake.NewHost()
	bridge := toolbridge.NewBridge(&stubRuntime{})
	loop := hostloop.New(host, bridge, hostloop.Options{})

	resource := &uiresource.UIResource{URI: "ui://widget/5", MIMEType: uiresource.MIMERemoteDOM, Text: "noop()"}
	if _, err := loop.Mount(context.Background(), resource); err == nil {
		t.Error("Mount() error = nil, want missing-sink error")
	}
}

func TestLoop_MountRejectsUnsupportedMIME(t *testing.T) {
	host := renderfake.NewHost()
	bridge := toolbridge.NewBridge(&stubRuntime{})
	loop := hostloop.New(host, bridge, hostloop.Options{})

	resource := &uiresource.UIResource{URI: "ui://widget/3", MIMEType: "text/plain", Text: "hi"}
	if _, err := loop.Mount(context.Background(), resource); err == nil {
		t.Error("Mount() error = nil, want unsupported mime error")
	}
}
