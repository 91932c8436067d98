// internal/api/handler/api/signals.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/newthinker/tradebot/internal/api/response"
	"github.com/newthinker/tradebot/internal/core"
	"github.com/newthinker/tradebot/internal/storage/signal"
)

const defaultLimit = 50

// SignalView is the JSON form of a core.Signal.
type SignalView struct {
	ID              string              `json:"id"`
	Symbol          string              `json:"symbol"`
	Action          core.Action         `json:"action"`
	Entry           float64             `json:"entry"`
	Exit            float64             `json:"exit,omitempty"`
	Targets         []float64           `json:"targets,omitempty"`
	Confidence      float64             `json:"confidence"`
	Reason          string              `json:"reason"`
	Regime          string              `json:"regime,omitempty"`
	Option          *core.OptionOverlay `json:"option,omitempty"`
	MLForecast      float64             `json:"ml_forecast"`
	Strategy        string              `json:"strategy"`
	GeneratedAt     time.Time           `json:"generated_at"`
	ProspectiveBuy  float64             `json:"prospective_buy,omitempty"`
	ProspectiveSell float64             `json:"prospective_sell,omitempty"`
}

// NewSignalView converts a signal for output.
func NewSignalView(s core.Signal) SignalView {
	v := SignalView{
		ID:              s.ID,
		Symbol:          s.Symbol,
		Action:          s.Action,
		Entry:           s.Entry,
		Exit:            s.Exit,
		Targets:         s.Targets,
		Confidence:      s.Confidence,
		Reason:          s.Reason,
		Regime:          s.Regime,
		MLForecast:      s.MLForecast,
		Strategy:        s.Strategy,
		GeneratedAt:     s.GeneratedAt,
		ProspectiveBuy:  s.ProspectiveBuy,
		ProspectiveSell: s.ProspectiveSell,
	}
	if o, ok := s.Option.Get(); ok {
		v.Option = &o
	}
	return v
}

// SignalsHandler handles signal-related API requests.
type SignalsHandler struct {
	store signal.Store
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(store signal.Store) *SignalsHandler {
	return &SignalsHandler{store: store}
}

// List returns signals matching query parameters.
func (h *SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := signal.ListFilter{
		Symbol:   q.Get("symbol"),
		Strategy: q.Get("strategy"),
		Regime:   q.Get("regime"),
		Action:   core.Action(q.Get("action")),
		From:     parseTime(q.Get("from")),
		To:       parseTime(q.Get("to")),
		Limit:    defaultLimit,
	}

	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filter.Offset = n
		}
	}

	signals, err := h.store.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	count, _ := h.store.Count(r.Context(), filter)

	views := make([]SignalView, len(signals))
	for i, s := range signals {
		views[i] = NewSignalView(s)
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"signals": views,
		"total":   count,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetByID returns a single signal by the {id} path value.
func (h *SignalsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	sig, err := h.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, NewSignalView(*sig))
}

// Latest returns the newest signal for the {symbol} path value.
func (h *SignalsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	sig, err := h.store.Latest(r.Context(), r.PathValue("symbol"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, NewSignalView(*sig))
}

// WriteJSON writes data with status 200.
func WriteJSON(w http.ResponseWriter, data any) {
	response.JSON(w, http.StatusOK, data)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
