package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/prospect"
)

type runFunc func(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)

// stream runs a scan for the lifetime of the request and writes every
// event as one "data: {json}" SSE frame. The run stops when the client
// disconnects.
func (s *Server) stream(name string, run runFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		log := zap.L().With(zap.String("run", name), zap.String("run_id", uuid.NewString()))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		var mu sync.Mutex
		out := prospect.EmitterFunc(func(e prospect.Event) {
			b, err := json.Marshal(e)
			if err != nil {
				log.Warn("server: encode event", zap.Error(err))
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
				return
			}
			flusher.Flush()
		})

		tally, err := run(r.Context(), out)
		if err != nil {
			log.Warn("scan ended with error", zap.Error(err), zap.Any("tally", tally))
			return
		}
		log.Info("scan complete", zap.Any("tally", tally))
	}
}
