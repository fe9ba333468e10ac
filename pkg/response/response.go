package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"discussify.com/api/pkg/apperror"
	"discussify.com/api/pkg/ratelimiter"
	"discussify.com/api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, apperror.Unauthorized("You are not logged in. Please log in to get access.")
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Invalid token. Please log in again.")
	}

	return userID, nil
}

// GetOptionalUserID returns nil for anonymous requests.
func GetOptionalUserID(c *gin.Context) *uuid.UUID {
	id, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// ParamUUID parses a uuid path parameter, writing a 400 on failure.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		ResponseError(c, apperror.Validation(fmt.Sprintf("Invalid %s", name)))
		return uuid.Nil, false
	}
	return id, true
}

func Success(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

func Message(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "success", "message": message})
}

// BindError renders a request binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	ResponseError(c, apperror.Validation(validator.FormatValidationError(err)))
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.Status(err)

	var rateErr *ratelimiter.RateLimitError
	if errors.As(err, &rateErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateErr.RetryAfter.Seconds()))
	}

	status := "fail"
	message := err.Error()
	if code >= http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		status = "error"
		message = "Something went wrong"
	}

	c.AbortWithStatusJSON(code, gin.H{"status": status, "message": message})
}
