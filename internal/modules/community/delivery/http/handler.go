package http

import (
	"net/http"

	"discussify.com/api/internal/entity"
	"discussify.com/api/internal/modules/community/dto"
	"discussify.com/api/internal/modules/community/service"
	"discussify.com/api/pkg/apperror"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommunityHandler struct {
	service service.CommunityService
}

func NewCommunityHandler(service service.CommunityService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// caller resolves the authenticated user and the :id community param.
func caller(c *gin.Context) (userID, communityID uuid.UUID, ok bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	communityID, ok = response.ParamUUID(c, "id")
	return userID, communityID, ok
}

func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	community, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"community": community})
}

func (h *CommunityHandler) GetAllCommunities(c *gin.Context) {
	var filter commonDto.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	communities, err := h.service.List(c.Request.Context(), filter.Search)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(communities),
		"data":    gin.H{"communities": communities},
	})
}

func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	community, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.UpdateCommunityRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var icon *commonDto.UploadedFile
	if fileHeader, err := c.FormFile("icon"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.ResponseError(c, apperror.Validation("Could not read uploaded icon"))
			return
		}
		defer file.Close()

		icon = &commonDto.UploadedFile{
			Reader:      file,
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	community, err := h.service.Update(c.Request.Context(), id, userID, req, icon)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.service.Join(c.Request.Context(), id, userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"joinStatus": result.Status,
		"message":    result.Message,
		"data":       gin.H{"community": result.Community},
	})
}

func (h *CommunityHandler) LeaveCommunity(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Successfully left the community")
}

// bindTarget binds a body carrying a userId and parses it.
func bindTarget(c *gin.Context, req any, raw func() string) (uuid.UUID, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BindError(c, err)
		return uuid.Nil, false
	}
	target, err := uuid.Parse(raw())
	if err != nil {
		response.ResponseError(c, apperror.Validation("Invalid userId"))
		return uuid.Nil, false
	}
	return target, true
}

func (h *CommunityHandler) KickMember(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.TargetUserRequest
	target, ok := bindTarget(c, &req, func() string { return req.UserID })
	if !ok {
		return
	}

	if err := h.service.Kick(c.Request.Context(), id, userID, target); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "User kicked")
}

func (h *CommunityHandler) UpdateMemberRole(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	target, ok := bindTarget(c, &req, func() string { return req.UserID })
	if !ok {
		return
	}

	role := entity.MemberRole(req.Role)
	if err := h.service.UpdateRole(c.Request.Context(), id, userID, target, role); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "User role updated to "+req.Role)
}

func (h *CommunityHandler) HandleJoinRequest(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.JoinRequestDecision
	target, ok := bindTarget(c, &req, func() string { return req.UserID })
	if !ok {
		return
	}

	message, err := h.service.HandleJoinRequest(c.Request.Context(), id, userID, target, req.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, message)
}

func (h *CommunityHandler) InviteUser(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.TargetUserRequest
	target, ok := bindTarget(c, &req, func() string { return req.UserID })
	if !ok {
		return
	}

	if err := h.service.Invite(c.Request.Context(), id, userID, target); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Invite sent")
}

func (h *CommunityHandler) RespondToInvite(c *gin.Context) {
	userID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.InviteResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	message, err := h.service.RespondToInvite(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Message(c, http.StatusOK, message)
}
