package models

import (
	"encoding/json"
	"testing"
)

// webvitalBody is a real compact payload emitted by the browser agent.
const webvitalBody = `{"en":"webvital","ts":1767348474997,"o":"http://host/","r":"http://host/","sw":1920,"sh":1080,"ed":{"metric":"LCP","value":132}}`

// Compact payloads deserialize from the short wire keys.
func TestCompactEvent_DeserializeWebvital(t *testing.T) {
	var e CompactEvent
	if err := json.Unmarshal([]byte(webvitalBody), &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if e.EventName != "webvital" {
		t.Fatalf("expected event name webvital got %q", e.EventName)
	}
	if e.Timestamp != 1767348474997 {
		t.Fatalf("expected ts 1767348474997 got %d", e.Timestamp)
	}
	if e.ScreenWidth != 1920 || e.ScreenHeight != 1080 {
		t.Fatalf("unexpected screen %dx%d", e.ScreenWidth, e.ScreenHeight)
	}
	if e.EventData["metric"] != "LCP" {
		t.Fatalf("expected ed.metric LCP got %v", e.EventData["metric"])
	}
}

// Validation passes whenever event name and origin are non-empty.
func TestCompactEvent_ValidateOK(t *testing.T) {
	e := CompactEvent{EventName: "pageview", Origin: "http://host/"}
	if err := e.Validate(); err != nil {
		t.Fatalf("expected valid got %v", err)
	}
}

// Validation errors name the missing field.
func TestCompactEvent_ValidateMissingFields(t *testing.T) {
	cases := []struct {
		name string
		e    CompactEvent
		want string
	}{
		{"missing event name", CompactEvent{Origin: "http://host/"}, "en (event name) is required"},
		{"missing origin", CompactEvent{EventName: "pageview"}, "o (origin) is required"},
	}

	for _, tc := range cases {
		err := tc.e.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if err.Error() != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, err.Error())
		}
	}
}

// Normalize synthesizes properties and page/screen context, leaving the
// server-side fields for the enricher.
func TestCompactEvent_Normalize(t *testing.T) {
	var raw CompactEvent
	if err := json.Unmarshal([]byte(webvitalBody), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	ev := raw.Normalize("proj-1", "user-9")

	if ev.ProjectID != "proj-1" || ev.UserID != "user-9" {
		t.Fatalf("identity not applied: %+v", ev)
	}
	if ev.EventType != "webvital" {
		t.Fatalf("expected eventType webvital got %q", ev.EventType)
	}
	if ev.Timestamp != 1767348474997 {
		t.Fatalf("client timestamp must be preserved, got %d", ev.Timestamp)
	}
	if ev.Properties["url"] != "http://host/" {
		t.Fatalf("expected properties.url got %v", ev.Properties["url"])
	}
	if ev.Properties["screen_width"] != 1920 || ev.Properties["screen_height"] != 1080 {
		t.Fatalf("expected screen properties got %v / %v", ev.Properties["screen_width"], ev.Properties["screen_height"])
	}
	if ev.Properties["referrer"] != "http://host/" {
		t.Fatalf("expected referrer property got %v", ev.Properties["referrer"])
	}
	if ev.Properties["metric"] != "LCP" {
		t.Fatalf("custom event data must flow into properties, got %v", ev.Properties["metric"])
	}

	if ev.Context == nil || ev.Context.Page == nil || ev.Context.Screen == nil {
		t.Fatalf("expected page and screen context: %+v", ev.Context)
	}
	if ev.Context.Page.URL != "http://host/" || ev.Context.Screen.Width != 1920 {
		t.Fatalf("unexpected context %+v", ev.Context)
	}
	if ev.Context.UserAgent != "" || ev.Context.IP != "" || ev.Context.ReceivedAt != 0 {
		t.Fatalf("server-side context must be left unset: %+v", ev.Context)
	}
}

// Custom event data is merged last and may override synthesized keys.
func TestCompactEvent_NormalizeEventDataOverrides(t *testing.T) {
	raw := CompactEvent{
		EventName: "click",
		Origin:    "http://host/a",
		EventData: map[string]any{"url": "http://override/"},
	}

	ev := raw.Normalize("proj-1", "")
	if ev.Properties["url"] != "http://override/" {
		t.Fatalf("ed must override synthesized url, got %v", ev.Properties["url"])
	}
}

// An empty referrer never becomes a property.
func TestCompactEvent_NormalizeEmptyReferrer(t *testing.T) {
	raw := CompactEvent{EventName: "pageview", Origin: "http://host/"}

	ev := raw.Normalize("proj-1", "")
	if _, ok := ev.Properties["referrer"]; ok {
		t.Fatal("empty referrer must be omitted from properties")
	}
}
