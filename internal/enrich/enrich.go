// Package enrich merges server-observed request context into a canonical
// event. The merge is additive: a field the client already populated is never
// overwritten. The single exception is receivedAt, which is a receipt-time
// marker owned by the server.
package enrich

import (
	"net/http"
	"strings"
	"time"

	"github.com/pulseboard/ingestion-service/internal/models"
)

// now is replaceable in tests.
var now = func() int64 { return time.Now().UnixMilli() }

// Enrich fills server-side context on the event. Pure transform, no I/O.
func Enrich(ev models.Event, r *http.Request) models.Event {
	ts := now()

	if ev.Timestamp == 0 {
		ev.Timestamp = ts
	}

	ctx := ev.Context
	if ctx == nil {
		ctx = &models.Context{}
	}

	if ctx.IP == "" {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			ctx.IP = strings.TrimSpace(first)
		}
	}

	if ctx.UserAgent == "" {
		ctx.UserAgent = r.Header.Get("User-Agent")
	}

	ctx.ReceivedAt = ts

	ev.Context = ctx
	return ev
}
