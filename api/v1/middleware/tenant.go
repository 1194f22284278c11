package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"lnk_domains/internal/auth"
	"lnk_domains/internal/httpx"
)

// Tenant headers set by the upstream gateway
const (
	HeaderUserID = "X-User-Id"
	HeaderTeamID = "X-Team-Id"
)

const (
	ctxUserID = "userId"
	ctxTeamID = "teamId"
)

// TenantRequired resolves the calling user and team.
// Gateway headers win; a Bearer token is accepted when JWT is configured.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		teamID := strings.TrimSpace(c.GetHeader(HeaderTeamID))

		if teamID == "" {
			if authHeader := c.GetHeader("Authorization"); authHeader != "" && auth.Enabled() {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					httpx.AbortErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
					return
				}

				claims, err := auth.ParseToken(parts[1])
				if err != nil {
					if errors.Is(err, jwt.ErrTokenExpired) {
						httpx.AbortErr(c, httpx.ErrTokenExpired("token expired"))
					} else {
						httpx.AbortErr(c, httpx.ErrInvalidToken("invalid token"))
					}
					return
				}
				userID, teamID = claims.UserID, claims.TeamID
			}
		}

		if teamID == "" {
			httpx.AbortErr(c, httpx.ErrUnauthorized(""))
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxTeamID, teamID)
		c.Next()
	}
}

// TeamID returns the team resolved by TenantRequired
func TeamID(c *gin.Context) string {
	return c.GetString(ctxTeamID)
}

// UserID returns the user resolved by TenantRequired
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
