package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/splittally/tally-backend/internal/response"
	"github.com/splittally/tally-backend/pkg/logger"
)

const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

type Middleware struct {
	webhookSecret   string
	responseHandler response.ResponseHandler
}

func NewMiddleware(webhookSecret string, rh response.ResponseHandler) *Middleware {
	return &Middleware{webhookSecret: webhookSecret, responseHandler: rh}
}

// WebhookAuth rejects update posts that do not carry the shared secret
// Telegram was configured to echo back. With no secret configured the check
// is disabled (local development against a tunnel).
func (m *Middleware) WebhookAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.webhookSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.webhookSecret)) != 1 {
			logger.FromContext(r.Context()).Warn("webhook secret mismatch")
			m.responseHandler.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "invalid webhook secret")
			return
		}

		next.ServeHTTP(w, r)
	})
}
