package delivery

import (
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type HistoryHandler struct {
	messages ports.MessageService
	log      *logger.ZapLogger
}

func NewHistoryHandler(messages ports.MessageService, log *logger.ZapLogger) *HistoryHandler {
	return &HistoryHandler{
		messages: messages,
		log:      log,
	}
}

type historyResponse struct {
	Handle   string                `json:"handle"`
	Limit    int                   `json:"limit"`
	Entries  []ports.StoredMessage `json:"entries"`
	Rendered string                `json:"rendered"`
}

// GET /history/{handle}?limit=N
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		http.Error(w, "missing handle", http.StatusBadRequest)
		return
	}

	limit := ports.DefaultContextLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	window, err := h.messages.GetContext(r.Context(), handle, limit)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	entries := window.Entries
	if entries == nil {
		entries = []ports.StoredMessage{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(historyResponse{
		Handle:   handle,
		Limit:    limit,
		Entries:  entries,
		Rendered: window.Render(),
	})
}
