package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/Vovarama1992/tg_memory_bot/internal/telegram"
)

// Путь дублирующего OCR-эндпоинта; семантика та же, что у webhook.
const OCRSavePath = "/api/mensajes/guardar-ocr"

type RouteOptions struct {
	// AdminToken protects /history; empty disables the route.
	AdminToken string
	// WebhookRatePerMinute per client IP; 0 disables limiting.
	WebhookRatePerMinute int
}

func RegisterRoutes(
	r chi.Router,
	hWebhook *telegram.WebhookHandler,
	hHistory *HistoryHandler,
	opts RouteOptions,
) {
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	// --- telegram ---
	r.Group(func(wr chi.Router) {
		wr.Use(httputil.RecoverMiddleware)
		if opts.WebhookRatePerMinute > 0 {
			wr.Use(httprate.LimitByIP(opts.WebhookRatePerMinute, time.Minute))
		}
		wr.Post(telegram.WebhookPath, hWebhook.Update)
		wr.Post(OCRSavePath, hWebhook.Update)
	})

	// --- история ---
	if opts.AdminToken != "" && hHistory != nil {
		r.Group(func(pr chi.Router) {
			pr.Use(
				httputil.RecoverMiddleware,
				AuthMiddleware(opts.AdminToken),
			)
			pr.Get("/history/{handle}", hHistory.GetHistory)
		})
	}
}
