package middleware

import (
	"net/http"
	"strings"

	"belezure-api/internal/usecase"
	"belezure-api/pkg/jwt"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

// Authenticate resolves the bearer token into a session.Session on the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		userType := session.UserType(claims.UserType)
		if !userType.Valid() {
			response.Unauthorized(w, "Invalid token")
			return
		}

		// Revoked tokens are removed from Redis on logout
		valid, err := usecase.IsTokenValid(r.Context(), m.redisClient, claims.UserID, claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to check token %s: %+v", claims.TokenID, err)
			response.ServiceUnavailable(w, "Failed to validate token", 2)
			return
		}
		if !valid {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := session.WithSession(r.Context(), session.Session{
			UserID:   claims.UserID,
			Email:    claims.Email,
			UserType: userType,
			TokenID:  claims.TokenID,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
