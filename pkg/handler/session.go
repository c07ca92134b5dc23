package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type sessionKey struct{}

// sessions makes sure every request carries a session id, issuing a cookie
// when the browser did not send a valid one.
func (h *Handler) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(h.session.Cookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     h.session.Cookie,
				Value:    id,
				Path:     "/",
				MaxAge:   h.session.MaxAge,
				Secure:   h.session.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
