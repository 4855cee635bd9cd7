package sse

import (
	"net/http"
	"time"

	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/metrics"
)

// Handler streams hub events to the caller until the request ends or the
// hub stops. ?types=a,b and ?crafter=id narrow the stream.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)
		rc := http.NewResponseController(w)

		filter := NewFilter(r.URL.Query().Get(QueryParamTypes), r.URL.Query().Get(QueryParamCrafter))
		client, ok := hub.Register(filter)
		if !ok {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		metrics.EventStreamClients.Inc()
		defer func() {
			metrics.EventStreamClients.Dec()
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		send := func(evt Event) bool {
			msg, err := Format(evt)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return false
			}
			if err := rc.Flush(); err != nil {
				log.Warn(LogMsgStreamUnsupported, "error", err)
				return false
			}
			return true
		}

		if !send(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "crafter": filter.Crafter},
		}) {
			return
		}
		log.Info(LogMsgClientConnected, "client_id", client.ID, "crafter", filter.Crafter)

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-client.Events:
				if !ok {
					return
				}
				if !send(evt) {
					return
				}
			case <-ticker.C:
				if !send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
