package http

import (
	"net/http"

	"discussify.com/api/internal/modules/resource/dto"
	"discussify.com/api/internal/modules/resource/service"
	"discussify.com/api/pkg/apperror"
	commonDto "discussify.com/api/pkg/dto"
	"discussify.com/api/pkg/response"
	"github.com/gin-gonic/gin"
)

// maxResourceSize caps multipart uploads.
const maxResourceSize = 20 << 20

type ResourceHandler struct {
	service service.ResourceService
}

func NewResourceHandler(service service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) CreateResource(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResourceSize)

	var req dto.CreateResourceRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var file *commonDto.UploadedFile
	if fileHeader, err := c.FormFile("resource"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			response.ResponseError(c, apperror.Validation("Could not read uploaded file"))
			return
		}
		defer f.Close()

		file = &commonDto.UploadedFile{
			Reader:      f,
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	resource, err := h.service.Create(c.Request.Context(), communityID, userID, req, file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"resource": resource})
}

func (h *ResourceHandler) GetAllResources(c *gin.Context) {
	communityID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	resources, err := h.service.List(c.Request.Context(), communityID, response.GetOptionalUserID(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(resources),
		"data":    gin.H{"resources": resources},
	})
}
