package service

import (
	"crypto/subtle"
	"strings"

	"github.com/deppfellow/bookmarks/internal/server"
)

// AuthService checks the static API token clients present as
// "Authorization: Bearer <token>".
type AuthService struct {
	token []byte
}

func NewAuthService(s *server.Server) *AuthService {
	return &AuthService{token: []byte(s.Config.Auth.APIToken)}
}

// Authenticate reports whether the Authorization header value carries the
// configured token. The scheme is matched case-insensitively.
func (a *AuthService) Authenticate(header string) bool {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return false
	}

	token = strings.TrimSpace(token)
	if token == "" || len(a.token) == 0 {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), a.token) == 1
}
