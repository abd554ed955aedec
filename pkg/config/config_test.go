package config_test

import (
	"testing"
	"time"

	"github.com/stacklok/mcpui/pkg/config"
)

func TestDefaultDispatcher(t *testing.T) {
	d := config.DefaultDispatcher()
	if d.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", d.RequestTimeout)
	}
	if d.MaxInFlightPerFrame != 256 {
		t.Errorf("MaxInFlightPerFrame = %v, want 256", d.MaxInFlightPerFrame)
	}
}

func TestDefaultRemoteDOM(t *testing.T) {
	r := config.DefaultRemoteDOM()
	if r.MaxTreeDepth != 64 {
		t.Errorf("MaxTreeDepth = %v, want 64", r.MaxTreeDepth)
	}
}
