// Package guestscript generates the Guest Helper Script (C9): the
// JavaScript text injected into every HTML-rendered guest that exposes
// window.callTool, window.notify, window.openLink, window.submitPrompt,
// and window.triggerIntent, wired to post ActionMessage-shaped payloads
// to the host via window.parent.postMessage.
package guestscript

import (
	"strings"
	"text/template"
)

// Options parameterizes the generated script.
type Options struct {
	// DefaultTimeoutMillis is documented in the script as the host's
	// correlated-response timeout; it does not change script behavior
	// (the host owns the real timeout), it only informs the guest.
	DefaultTimeoutMillis int
}

var tmpl = template.Must(template.New("guestscript").Parse(guestScriptTemplate))

// Render produces the <script> body text for opts. It never errors: the
// template is a package-level constant validated at init.
func Render(opts Options) string {
	var b strings.Builder
	if err := tmpl.Execute(&b, opts); err != nil {
		// The template is a fixed constant; a failure here means the
		// template itself is broken, not bad input.
		panic("guestscript: template execution failed: " + err.Error())
	}
	return b.String()
}

// guestScriptTemplate mirrors the teacher's scalarHTML constant in
// shape: a single Go string template holding an entire client-side
// script, rendered once per mount via text/template.
const guestScriptTemplate = `
(function () {
  "use strict";

  var DEFAULT_TIMEOUT_MS = {{.DefaultTimeoutMillis}};
  var pending = Object.create(null);

  function genRequestId() {
    return "req-" + Date.now().toString(36) + "-" + Math.random().toString(36).slice(2);
  }

  function post(message) {
    window.parent.postMessage(message, "*");
  }

  window.addEventListener("message", function (event) {
    var data = event.data;
    if (!data || data.type !== "response" || !data.requestId) {
      return;
    }
    var entry = pending[data.requestId];
    if (!entry) {
      return;
    }
    delete pending[data.requestId];
    if (data.success) {
      entry.resolve(data.data);
    } else {
      entry.reject(new Error(data.error || "request failed"));
    }
  });

  function correlate(message) {
    var requestId = genRequestId();
    message.requestId = requestId;
    return new Promise(function (resolve, reject) {
      pending[requestId] = { resolve: resolve, reject: reject };
      post(message);
    });
  }

  window.callTool = function (toolName, args) {
    return correlate({ type: "tool", toolName: toolName, args: args || {} });
  };

  window.submitPrompt = function (text, defaultValue) {
    return correlate({ type: "prompt", text: text, defaultValue: defaultValue });
  };

  window.notify = function (level, message) {
    post({ type: "notify", level: level, message: message });
  };

  window.openLink = function (url, target) {
    post({ type: "link", url: url, target: target });
  };

  window.triggerIntent = function (intent, data) {
    post({ type: "intent", intent: intent, data: data });
  };
})();
`
