package web

import (
	"net/http"

	"github.com/gorilla/csrf"
)

const msgFormExpired = "Your form has expired. Reload the page and try again."

// Protected returns the view routes behind double-submit cookie CSRF protection.
// authKey must be 32 bytes. secure marks the cookie Secure and expects TLS.
func (h *Handler) Protected(authKey []byte, secure bool) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(h.csrfFailure)),
	)(h.Routes())
	if secure {
		return protect
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (h *Handler) csrfFailure(w http.ResponseWriter, r *http.Request) {
	h.logger.WarnContext(r.Context(), "csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	h.render(w, r, http.StatusForbidden, "error", msgFormExpired)
}
