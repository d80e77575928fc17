package handler

import (
	"net/http"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler handles file uploads for drafts
type AttachmentHandler struct {
	service service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Upload godoc
// @Summary      Upload a file
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "File"
// @Success      201  {object}  common.APIResponse{data=domain.Attachment}
// @Failure      400  {object}  common.APIResponse
// @Failure      503  {object}  common.APIResponse
// @Router       /attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "File is required", err)
		return
	}
	body, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Unreadable file", err)
		return
	}
	defer body.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	a, err := h.service.Upload(c.Request.Context(), actor, service.UploadInput{
		FileName:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        body,
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, a)
}

// Link godoc
// @Summary      Link uploaded files to a draft
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.LinkAttachmentsRequest  true  "Link"
// @Success      200  {object}  common.APIResponse{data=[]domain.Attachment}
// @Failure      403  {object}  common.APIResponse
// @Router       /attachments/link [post]
func (h *AttachmentHandler) Link(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req domain.LinkAttachmentsRequest
	if !bindJSON(c, &req) {
		return
	}

	attachments, err := h.service.Link(c.Request.Context(), actor, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, attachments, nil)
}
