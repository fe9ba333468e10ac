package http

import (
	"net/http"

	"discussify.com/api/internal/modules/reaction/service"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	service service.LikeService
}

func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func params(c *gin.Context, names ...string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, ok := response.ParamUUID(c, name)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *LikeHandler) LikeDiscussion(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	ids, ok := params(c, "id", "discussionId")
	if !ok {
		return
	}

	result, err := h.service.LikeDiscussion(c.Request.Context(), ids[0], ids[1], userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *LikeHandler) LikeComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	ids, ok := params(c, "id", "discussionId", "commentId")
	if !ok {
		return
	}

	result, err := h.service.LikeComment(c.Request.Context(), ids[0], ids[1], ids[2], userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
