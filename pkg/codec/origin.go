// Package codec implements the message codec and origin validator (C1):
// structural schema validation of inbound frame messages and the
// security-critical origin acceptance rule.
package codec

import "net/url"

// ClassifyOrigin reports whether origin is acceptable as the source of an
// inbound frame message. The rule set, in order:
//
//   - "null" is accepted (srcdoc iframes always report this).
//   - Any https: origin is accepted regardless of host.
//   - An http: origin is accepted only when the host is exactly
//     "localhost" or "127.0.0.1".
//   - Everything else — file:, data:, javascript:, and unparseable
//     strings — is rejected.
func ClassifyOrigin(origin string) bool {
	if origin == "null" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	switch u.Scheme {
	case "https":
		return true
	case "http":
		return u.Hostname() == "localhost" || u.Hostname() == "127.0.0.1"
	default:
		return false
	}
}
