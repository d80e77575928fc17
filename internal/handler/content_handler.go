package handler

import (
	"context"
	"net/http"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/diwan-maarifa/diwan-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ContentHandler handles submissions, from draft to public content
type ContentHandler struct {
	workflow    service.WorkflowService
	publication service.PublicationService
	search      service.SearchService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(workflow service.WorkflowService, publication service.PublicationService, search service.SearchService) *ContentHandler {
	return &ContentHandler{workflow: workflow, publication: publication, search: search}
}

// Create godoc
// @Summary      Create a draft
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.CreateSubmissionRequest  true  "Draft"
// @Success      201  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	var req domain.CreateSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.workflow.Create(c.Request.Context(), actor, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, sub.ToResponse())
}

// ListPublished godoc
// @Summary      List published content
// @Tags         content
// @Produce      json
// @Param        category      query  int     false  "Category ID"
// @Param        content_type  query  string  false  "term or article"
// @Param        search        query  string  false  "Text filter"
// @Param        page          query  int     false  "Page"   default(1)
// @Param        limit         query  int     false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.SubmissionResponse}
// @Router       /content [get]
func (h *ContentHandler) ListPublished(c *gin.Context) {
	var req domain.PublishedListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	page, err := h.publication.ListPublished(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page.Items, page.Meta)
}

// Search godoc
// @Summary      Search published content
// @Tags         content
// @Produce      json
// @Param        q      query  string  true   "Query, at least 2 characters"
// @Param        page   query  int     false  "Page"   default(1)
// @Param        limit  query  int     false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=service.SearchResult}
// @Failure      400  {object}  common.APIResponse
// @Router       /content/search [get]
func (h *ContentHandler) Search(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"),
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", 20))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, result, result.Meta)
}

// GetBySlug godoc
// @Summary      Read published content
// @Tags         content
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /content/slug/{slug} [get]
func (h *ContentHandler) GetBySlug(c *gin.Context) {
	sub, err := h.publication.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, sub.ToResponse(), nil)
}

// MySubmissions godoc
// @Summary      List own submissions
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Status filter"
// @Param        page    query  int     false  "Page"   default(1)
// @Param        limit   query  int     false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.SubmissionResponse}
// @Router       /content/my-submissions [get]
func (h *ContentHandler) MySubmissions(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	items, meta, err := h.workflow.ListMine(c.Request.Context(), actor,
		domain.SubmissionStatus(c.Query("status")),
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", 20))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, items, meta)
}

// Get godoc
// @Summary      Read a submission with its workflow history
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionDetail}
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}

	detail, err := h.workflow.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, detail, nil)
}

// Update godoc
// @Summary      Edit a draft
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                     true  "Submission ID"
// @Param        request  body  domain.SubmissionPatch  true  "Fields to change"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	h.patch(c, h.workflow.Edit)
}

// UpdatePublished godoc
// @Summary      Edit live content without a status change
// @Tags         publication
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                     true  "Submission ID"
// @Param        request  body  domain.SubmissionPatch  true  "Fields to change"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id}/published [put]
func (h *ContentHandler) UpdatePublished(c *gin.Context) {
	h.patch(c, h.publication.UpdatePublished)
}

type patchFunc func(ctx context.Context, actor domain.Principal, id uint64, patch *domain.SubmissionPatch) (*domain.Submission, error)

func (h *ContentHandler) patch(c *gin.Context, apply patchFunc) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}
	var patch domain.SubmissionPatch
	if !bindJSON(c, &patch) {
		return
	}

	sub, err := apply(c.Request.Context(), actor, id, &patch)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, sub.ToResponse(), nil)
}

// Delete godoc
// @Summary      Delete a draft
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}

	if err := h.workflow.Delete(c.Request.Context(), actor, id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"id": id, "deleted": true}, nil)
}

type transitionFunc func(ctx context.Context, actor domain.Principal, id uint64) (*domain.Submission, error)

func (h *ContentHandler) transition(c *gin.Context, apply transitionFunc) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}

	sub, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, sub.ToResponse(), nil)
}

// Submit godoc
// @Summary      Send a draft to content review
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /content/{id}/submit [post]
func (h *ContentHandler) Submit(c *gin.Context) {
	h.transition(c, h.workflow.Submit)
}

// Reopen godoc
// @Summary      Return a submission needing revision to draft
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Router       /content/{id}/reopen [post]
func (h *ContentHandler) Reopen(c *gin.Context) {
	h.transition(c, h.workflow.Reopen)
}

// Publish godoc
// @Summary      Publish approved content
// @Tags         publication
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id}/publish [put]
func (h *ContentHandler) Publish(c *gin.Context) {
	h.transition(c, h.publication.Publish)
}

// Unpublish godoc
// @Summary      Withdraw published content back to draft
// @Tags         publication
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Router       /content/{id}/unpublish [put]
func (h *ContentHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.publication.Unpublish)
}
