package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidoz-backend/api/responses"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
)

const defaultHistoryLimit = 20

// AdminOrderHistory lists a user's recent orders, newest first.
func AdminOrderHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		waID := strings.TrimSpace(r.URL.Query().Get("wa_id"))
		if waID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "wa_id query parameter is required"))
			return
		}

		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = parsed
		}

		history, err := svc.History(ctx, waID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, history)
	}
}
