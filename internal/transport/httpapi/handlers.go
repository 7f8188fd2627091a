package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/alexisbeaulieu97/signin/internal/domain/auth"
	"github.com/alexisbeaulieu97/signin/internal/ports"
	"github.com/alexisbeaulieu97/signin/internal/signin"
)

type handlers struct {
	authenticator ports.Authenticator
	logger        ports.Logger
	ready         func(ctx context.Context) error
	// timeout bounds the backend work of one request. The handler owns the
	// resulting status.
	timeout time.Duration
}

// kindMalformedRequest reports a body that could not be parsed as a form.
const kindMalformedRequest auth.ErrorKind = "MALFORMED_REQUEST"

// errorBody is the JSON envelope for every non-2xx response.
type errorBody struct {
	Error     auth.ErrorKind   `json:"error"`
	Kinds     []auth.ErrorKind `json:"kinds,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			h.logger.Warn(ctx, "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, kindMalformedRequest, nil)
		return
	}
	creds := auth.Credentials{
		Identifier: r.PostForm.Get("username"),
		Secret:     r.PostForm.Get("password"),
	}

	if result := signin.ValidateCredentials(creds); !result.Valid() {
		writeError(w, r, statusFor(result.Kinds[0]), result.Kinds[0], result.Kinds)
		return
	}
	if h.authenticator == nil {
		writeError(w, r, http.StatusInternalServerError, auth.KindServerError, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	principal, err := h.authenticator.Authenticate(ctx, auth.Credentials{
		Identifier: signin.NormalizeIdentifier(creds.Identifier),
		Secret:     creds.Secret,
	})
	if err != nil {
		kind := auth.KindOf(err)
		status := statusFor(kind)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, r, status, kind, nil)
		return
	}

	writeJSON(w, http.StatusOK, principal)
}

func statusFor(kind auth.ErrorKind) int {
	if kind.IsValidation() {
		return http.StatusBadRequest
	}
	switch kind {
	case auth.KindInvalidCredentials:
		return http.StatusUnauthorized
	case auth.KindNetworkUnavailable:
		return http.StatusServiceUnavailable
	case auth.KindCancelled:
		// nginx's "client closed request".
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind auth.ErrorKind, kinds []auth.ErrorKind) {
	writeJSON(w, status, errorBody{
		Error:     kind,
		Kinds:     kinds,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
