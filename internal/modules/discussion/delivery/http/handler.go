package http

import (
	"net/http"

	"discussify.com/api/internal/modules/discussion/dto"
	"discussify.com/api/internal/modules/discussion/service"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
)

type DiscussionHandler struct {
	service service.DiscussionService
}

func NewDiscussionHandler(service service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{service: service}
}

func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	discussion, err := h.service.Create(c.Request.Context(), communityID, userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"discussion": discussion})
}

func (h *DiscussionHandler) GetAllDiscussions(c *gin.Context) {
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var filter commonDto.PaginationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), communityID, response.GetOptionalUserID(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(page.Data),
		"data":    gin.H{"discussions": page.Data},
		"meta":    page.Meta,
	})
}

func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}
	discussionID, ok := response.ParamUUID(c, "discussionId")
	if !ok {
		return
	}

	discussion, err := h.service.Get(c.Request.Context(), communityID, discussionID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"discussion": discussion})
}

func (h *DiscussionHandler) CreateComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}
	discussionID, ok := response.ParamUUID(c, "discussionId")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), communityID, discussionID, userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"comment": comment})
}

func (h *DiscussionHandler) GetComments(c *gin.Context) {
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}
	discussionID, ok := response.ParamUUID(c, "discussionId")
	if !ok {
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), communityID, discussionID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(comments),
		"data":    gin.H{"comments": comments},
	})
}
