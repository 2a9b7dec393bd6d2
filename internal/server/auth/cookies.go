package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/common"
)

// SetTokenCookie stores the access token in an HttpOnly cookie.
func SetTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest reads the access token cookie, falling back to an
// "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	const bearer = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearer) {
		return "", false
	}
	token := h[len(bearer):]
	return token, token != ""
}
