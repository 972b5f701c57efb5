package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	CookieName = "csrf_token"
	HeaderName = "X-CSRF-Token"
	FieldName  = "csrf_token"
	tokenLen   = 32
)

type ctxKey struct{}

func generateToken() (string, error) {
	b := make([]byte, tokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Token returns the token Protect attached to the request, so pages can
// embed it in forms on the first visit before the cookie round-trips.
func Token(r *http.Request) string {
	tok, _ := r.Context().Value(ctxKey{}).(string)
	return tok
}

// Protect implements the double-submit cookie pattern.
// Safe methods get a csrf_token cookie if they lack one. Other methods must
// echo the cookie in the X-CSRF-Token header or the csrf_token form field.
func Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token := ""
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				token = c.Value
			} else {
				token, err = generateToken()
				if err != nil {
					http.Error(w, "Internal error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					SameSite: http.SameSiteStrictMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, token)))
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Forbidden: missing CSRF token", http.StatusForbidden)
			return
		}
		submitted := r.Header.Get(HeaderName)
		if submitted == "" {
			submitted = r.PostFormValue(FieldName)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(cookie.Value)) != 1 {
			http.Error(w, "Forbidden: invalid CSRF token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, cookie.Value)))
	})
}
