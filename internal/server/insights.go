package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/insight"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type insightHandler struct {
	svc    *insight.Service
	logger logger.ZapLogger
}

type insightEvent struct {
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Fallback bool   `json:"fallback"`
}

// ServeHTTP streams the narration as server-sent events, one event per
// update, each carrying the whole text so far.
func (h *insightHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "insights are not configured", http.StatusServiceUnavailable)
		return
	}
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	user, _ := auth.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	publish := func(u insight.Update) {
		b, err := json.Marshal(insightEvent{Text: u.Text, Done: u.Done, Fallback: u.Fallback})
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
			return
		}
		flusher.Flush()
	}
	if err := h.svc.Stream(r.Context(), user.UserID, window, r.Header.Get("Accept-Language"), publish); err != nil {
		h.logger.Warn("insight stream ended with error", zap.String("user_id", user.UserID), zap.Error(err))
	}
}

// parseWindow reads optional RFC 3339 startDate and endDate query values.
func parseWindow(r *http.Request) (model.DateRange, error) {
	var window model.DateRange
	q := r.URL.Query()
	for key, dst := range map[string]**time.Time{"startDate": &window.Start, "endDate": &window.End} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return model.DateRange{}, errors.Errorf("%s must be an RFC 3339 timestamp", key)
		}
		t = t.UTC()
		*dst = &t
	}
	if !window.Valid() {
		return model.DateRange{}, errors.New("startDate must not be after endDate")
	}
	return window, nil
}
