package models

import "errors"

// CompactEvent is the compressed wire format sent by current-generation
// clients to POST /view and POST /event. The tenant is not part of the body;
// it comes from the bearer credential.
type CompactEvent struct {
	EventName    string         `json:"en"`
	Timestamp    int64          `json:"ts"` // epoch milliseconds
	Origin       string         `json:"o"`  // full page URL
	Referrer     string         `json:"r"`
	ScreenWidth  int            `json:"sw"`
	ScreenHeight int            `json:"sh"`
	EventData    map[string]any `json:"ed,omitempty"` // custom properties
}

// Validate checks the fields required by the compact schema.
func (e *CompactEvent) Validate() error {
	if e.EventName == "" {
		return errors.New("en (event name) is required")
	}
	if e.Origin == "" {
		return errors.New("o (origin) is required")
	}
	return nil
}

// Normalize maps the compact payload into the canonical event. The tenant and
// caller come from the resolved credential, never from the body. Custom event
// data is merged last so clients may override the synthesized keys. User
// agent, IP and receipt time are left for the enricher.
func (e *CompactEvent) Normalize(projectID, userID string) Event {
	properties := map[string]any{
		"url":           e.Origin,
		"screen_width":  e.ScreenWidth,
		"screen_height": e.ScreenHeight,
	}
	if e.Referrer != "" {
		properties["referrer"] = e.Referrer
	}
	for k, v := range e.EventData {
		properties[k] = v
	}

	return Event{
		ProjectID:  projectID,
		EventType:  e.EventName,
		Timestamp:  e.Timestamp,
		UserID:     userID,
		Properties: properties,
		Context: &Context{
			Page: &PageContext{
				URL:      e.Origin,
				Referrer: e.Referrer,
			},
			Screen: &ScreenContext{
				Width:  e.ScreenWidth,
				Height: e.ScreenHeight,
			},
		},
	}
}
