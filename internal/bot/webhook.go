package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	// maxWebhookBody caps a single update envelope.
	maxWebhookBody = 1 << 20

	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler accepts Telegram update envelopes over HTTP. When secret is
// set, requests must carry it in the secret token header.
type WebhookHandler struct {
	handler UpdateHandler
	secret  string
	logger  *zap.Logger
}

func NewWebhookHandler(handler UpdateHandler, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{handler: handler, secret: secret, logger: logger}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.secret != "" {
		got := r.Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.logger.Warn("Webhook request with bad secret token",
				zap.String("remote_addr", r.RemoteAddr))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Webhook payload too large", zap.Int64("limit", tooLarge.Limit))
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("Malformed webhook payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.handler.HandleUpdate(r.Context(), update)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}
