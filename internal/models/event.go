package models

import "encoding/json"

// Event is the canonical representation every wire variant is normalized
// into. It is built once per request, enriched once, serialized once for the
// stream write, and never stored locally.
type Event struct {
	ProjectID   string         `json:"projectId"`
	EventType   string         `json:"eventType"`
	Timestamp   int64          `json:"timestamp"` // epoch milliseconds
	SessionID   string         `json:"sessionId,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	AnonymousID string         `json:"anonymousId,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Context     *Context       `json:"context,omitempty"`
}

// Context carries client- and server-observed request context. Unrecognized
// keys are kept in Extra and flattened back on serialization so nothing a
// client sends is ever dropped.
type Context struct {
	Page       *PageContext   `json:"page,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	Locale     string         `json:"locale,omitempty"`
	Screen     *ScreenContext `json:"screen,omitempty"`
	IP         string         `json:"ip,omitempty"`
	ReceivedAt int64          `json:"receivedAt,omitempty"`
	Extra      map[string]any `json:"-"`
}

type PageContext struct {
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
	Path     string `json:"path,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

type ScreenContext struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// contextAlias avoids recursion into the custom (Un)MarshalJSON.
type contextAlias Context

var contextKnownKeys = []string{"page", "userAgent", "locale", "screen", "ip", "receivedAt"}

// UnmarshalJSON fills the known fields and collects every other key into Extra.
func (c *Context) UnmarshalJSON(b []byte) error {
	var a contextAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range contextKnownKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return err
			}
			a.Extra[k] = val
		}
	}

	*c = Context(a)
	return nil
}

// MarshalJSON flattens Extra next to the known fields. Known fields win on a
// key collision.
func (c Context) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(contextAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(c.Extra)+len(contextKnownKeys))
	for k, v := range c.Extra {
		merged[k] = v
	}
	var knownMap map[string]any
	if err := json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		merged[k] = v
	}
	return json.Marshal(merged)
}
