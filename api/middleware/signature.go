package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/angelmondragon/pedidoz-backend/api/responses"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
)

const signatureHeader = "X-Hub-Signature-256"

// VerifySignature checks the Graph API webhook signature: HMAC-SHA256 of the
// raw body keyed by the app secret, hex-encoded behind a "sha256=" prefix.
// An empty secret disables the check, which is only acceptable outside prod.
func VerifySignature(appSecret string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if appSecret == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(payload))

			header := r.Header.Get(signatureHeader)
			if !validSignature(payload, appSecret, header) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validSignature(payload []byte, secret, header string) bool {
	digest, ok := strings.CutPrefix(header, "sha256=")
	if !ok || digest == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(digest))
}
