package http

import (
	"net/http"

	"discussify.com/api/internal/modules/activity/service"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	recorder service.Recorder
}

func NewActivityHandler(recorder service.Recorder) *ActivityHandler {
	return &ActivityHandler{recorder: recorder}
}

func (h *ActivityHandler) GetMyActivity(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	activities, err := h.recorder.ListRecent(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activities": activities})
}
