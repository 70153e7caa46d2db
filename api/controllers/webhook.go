package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/pedidoz-backend/api/responses"
	"github.com/angelmondragon/pedidoz-backend/internal/conversation"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/whatsapp"
)

// WebhookVerify answers the Graph API subscription handshake: echo the
// challenge when the verify token matches, reject otherwise.
func WebhookVerify(verifyToken string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		mode := query.Get("hub.mode")
		token := query.Get("hub.verify_token")
		challenge := query.Get("hub.challenge")

		if mode != "subscribe" || token == "" || token != verifyToken {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook verification failed"))
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
	}
}

// WebhookReceive ingests one Graph API notification. Meta retries anything
// that is not a 200, so every outcome past signature verification answers
// 200; failures are logged and the turn lease protects against the retry
// racing a still-running turn.
func WebhookReceive(svc conversation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var notification whatsapp.Notification
		if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
			logg.Warn(ctx, "webhook payload not decodable: "+err.Error())
			responses.WriteSuccess(w, nil)
			return
		}

		inbound, ok := whatsapp.FirstInbound(notification)
		if !ok {
			// delivery/status notifications land here too; nothing to do
			responses.WriteSuccess(w, nil)
			return
		}

		if err := svc.HandleTurn(ctx, inbound); err != nil {
			logg.Error(ctx, "turn failed", err)
		}
		responses.WriteSuccess(w, nil)
	}
}
