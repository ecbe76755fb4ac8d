package httptransport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sofs91/InspectWise3.0/internal/httpx"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

type ChangesHandler struct {
	feed      realtime.Feed
	heartbeat time.Duration
}

func NewChangesHandler(feed realtime.Feed) *ChangesHandler {
	return &ChangesHandler{feed: feed, heartbeat: heartbeatInterval}
}

// Stream sends the caller's organization's template and configuration
// changes as server-sent events named after the table.
func (h *ChangesHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := httpx.OrganizationID(ctx)

	templates, err := h.feed.Subscribe(ctx, realtime.TableTemplates, orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer templates.Close()
	configurations, err := h.feed.Subscribe(ctx, realtime.TableConfigurations, orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer configurations.Close()

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		var (
			ev realtime.Event
			ok bool
		)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			_ = rc.Flush()
			continue
		case ev, ok = <-templates.Events():
		case ev, ok = <-configurations.Events():
		}
		if !ok {
			_, _ = w.Write([]byte("event: done\ndata: {}\n\n"))
			_ = rc.Flush()
			return
		}
		if err := writeEvent(w, ev); err != nil {
			slog.Warn("change stream write failed", "organization_id", orgID, "err", err)
			return
		}
		_ = rc.Flush()
	}
}

func writeEvent(w http.ResponseWriter, ev realtime.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Table, data)
	return err
}
