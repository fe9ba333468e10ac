package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"discussify.com/api/internal/entity"
	"discussify.com/api/pkg/apperror"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFinder only sees active users, so a deactivated account loses access
// with its next request.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type AuthMiddleware struct {
	users  UserFinder
	secret string
}

func NewAuthMiddleware(users UserFinder, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		secret: secret,
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Fallback to query parameter "token" (useful for WebSockets)
	return c.Query("token")
}

// authenticate resolves the token to an active user.
func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) (*entity.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid or expired token. Please log in again.")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, apperror.Unauthorized("Invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token claims")
	}

	user, err := m.users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthorized("The user belonging to this token no longer exists.")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.ResponseError(c, apperror.Unauthorized("You are not logged in. Please log in to get access."))
			return
		}

		user, err := m.authenticate(c, tokenString)
		if err != nil {
			response.ResponseError(c, err)
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// otherwise lets the request through as anonymous.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if user, err := m.authenticate(c, tokenString); err == nil {
				c.Set("user_id", user.ID.String())
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		user, ok := value.(*entity.User)
		if !exists || !ok {
			response.ResponseError(c, apperror.Unauthorized("You are not logged in. Please log in to get access."))
			return
		}

		if user.Role != entity.UserRoleAdmin {
			response.ResponseError(c, apperror.Forbidden("You do not have permission to perform this action"))
			return
		}

		c.Next()
	}
}
