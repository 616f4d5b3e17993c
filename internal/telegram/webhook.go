package telegram

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// WebhookHandler: приём апдейтов от Telegram (push-режим)
type WebhookHandler struct {
	dispatcher *Dispatcher
	log        *zap.Logger
}

func NewWebhookHandler(dispatcher *Dispatcher, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, log: log}
}

// POST /bot/update
//
// Always answers 200 so Telegram never redelivers an update we already got.
// The reply is sent before the response.
func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.log.Warn("webhook body unreadable", zap.Error(err))
		writeOK(w)
		return
	}

	u, err := DecodeUpdate(body)
	if err != nil {
		h.log.Warn("webhook update malformed", zap.Error(err), zap.ByteString("body", body))
		writeOK(w)
		return
	}

	msg := FromUpdate(u)
	if msg == nil {
		h.log.Debug("webhook update without text", zap.Int("update_id", u.UpdateID))
		writeOK(w)
		return
	}

	_ = h.dispatcher.Dispatch(r.Context(), "webhook", u.UpdateID, *msg)
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
