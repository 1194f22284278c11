package ws

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"

	"lnk_domains/internal/auth"
)

// headerTeamID is set by the upstream gateway, same as on the REST API
const headerTeamID = "X-Team-Id"

var errNoTenant = errors.New("no tenant context")

// tenantFromRequest resolves the team of a handshake.
// Priority: 1. X-Team-Id header, 2. token query parameter, 3. Authorization header
func tenantFromRequest(header http.Header, query url.Values) (string, error) {
	if teamID := strings.TrimSpace(header.Get(headerTeamID)); teamID != "" {
		return teamID, nil
	}

	token := extractToken(header, query)
	if token == "" || !auth.Enabled() {
		return "", errNoTenant
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.TeamID, nil
}

// extractToken reads the JWT from ?token= (socket.io auth.token) or a Bearer header
func extractToken(header http.Header, query url.Values) string {
	if token := query.Get("token"); token != "" {
		return token
	}

	parts := strings.SplitN(header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// WrapWithAuth rejects handshakes that carry no tenant before they reach Socket.IO
func WrapWithAuth(server *socketio.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/socket.io/") {
			if _, err := tenantFromRequest(r.Header, r.URL.Query()); err != nil {
				logrus.WithField("remote", r.RemoteAddr).Warnf("handshake rejected: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		server.ServeHTTP(w, r)
	})
}
