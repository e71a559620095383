package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/SscSPs/dailybalance/internal/utils"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
// The token subject becomes the user namespace for every ledger operation.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)

		// Get the token from the header (or the query string for event streams)
		tokenString, ok := bearerToken(c)
		if !ok {
			logger.Warn("Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		// Parse and validate the token
		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret, issuer)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// The subject is used as a storage key segment, so it must not contain a separator
		userID := claims.Subject
		if userID == "" || strings.Contains(userID, "/") {
			logger.Error("Token subject is not a usable user id")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		// Store user ID in both contexts and tag every later log line with it
		c.Set(string(userIDKey), userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		SetLogger(c, logger.With(slog.String("user_id", userID)))

		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header. EventSource clients cannot
// set headers, so GET requests may pass it as the access_token query parameter instead.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if c.Request.Method == http.MethodGet {
			if token := c.Query("access_token"); token != "" {
				return token, true
			}
		}
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
