package models

import "errors"

// EventTypePageView is the fixed event type produced by the page-view route.
const EventTypePageView = "pageview"

// errIdentityRequired is shared by the expanded variants, which cannot fall
// back on a credential-resolved caller.
var errIdentityRequired = errors.New("one of userId, anonymousId or sessionId is required")

// PageViewEvent is the earlier-generation page-view wire format for
// POST /view. The tenant travels in the body.
type PageViewEvent struct {
	ProjectID   string   `json:"projectId"`
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Referrer    string   `json:"referrer,omitempty"`
	Timestamp   int64    `json:"timestamp,omitempty"`
	SessionID   string   `json:"sessionId,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	AnonymousID string   `json:"anonymousId,omitempty"`
	Context     *Context `json:"context,omitempty"`
}

// TrackEvent is the earlier-generation custom-event wire format for
// POST /track.
type TrackEvent struct {
	ProjectID   string         `json:"projectId"`
	Event       string         `json:"event"`
	Properties  map[string]any `json:"properties,omitempty"`
	Timestamp   int64          `json:"timestamp,omitempty"`
	SessionID   string         `json:"sessionId,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	AnonymousID string         `json:"anonymousId,omitempty"`
	Context     *Context       `json:"context,omitempty"`
}

func (e *PageViewEvent) Validate() error {
	if e.ProjectID == "" {
		return errors.New("projectId is required")
	}
	if e.URL == "" {
		return errors.New("url is required")
	}
	if e.UserID == "" && e.AnonymousID == "" && e.SessionID == "" {
		return errIdentityRequired
	}
	return nil
}

func (e *TrackEvent) Validate() error {
	if e.ProjectID == "" {
		return errors.New("projectId is required")
	}
	if e.Event == "" {
		return errors.New("event is required")
	}
	if e.UserID == "" && e.AnonymousID == "" && e.SessionID == "" {
		return errIdentityRequired
	}
	return nil
}

// Normalize maps the page view into the canonical event. Client-supplied
// context passes through unchanged.
func (e *PageViewEvent) Normalize() Event {
	properties := map[string]any{"url": e.URL}
	if e.Title != "" {
		properties["title"] = e.Title
	}
	if e.Referrer != "" {
		properties["referrer"] = e.Referrer
	}

	return Event{
		ProjectID:   e.ProjectID,
		EventType:   EventTypePageView,
		Timestamp:   e.Timestamp,
		SessionID:   e.SessionID,
		UserID:      e.UserID,
		AnonymousID: e.AnonymousID,
		Properties:  properties,
		Context:     e.Context,
	}
}

// Normalize maps the track event into the canonical event. Properties and
// context pass through unchanged.
func (e *TrackEvent) Normalize() Event {
	return Event{
		ProjectID:   e.ProjectID,
		EventType:   e.Event,
		Timestamp:   e.Timestamp,
		SessionID:   e.SessionID,
		UserID:      e.UserID,
		AnonymousID: e.AnonymousID,
		Properties:  e.Properties,
		Context:     e.Context,
	}
}
