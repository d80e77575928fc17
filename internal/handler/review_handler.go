package handler

import (
	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/diwan-maarifa/diwan-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ReviewHandler handles the review queue and decisions
type ReviewHandler struct {
	workflow service.WorkflowService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(workflow service.WorkflowService) *ReviewHandler {
	return &ReviewHandler{workflow: workflow}
}

// Pending godoc
// @Summary      Review queue for the caller's stage
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page"   default(1)
// @Param        limit  query  int  false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.SubmissionResponse}
// @Failure      403  {object}  common.APIResponse
// @Router       /reviews/pending [get]
func (h *ReviewHandler) Pending(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	items, meta, err := h.workflow.ListPending(c.Request.Context(), actor,
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", 20))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, items, meta)
}

// History godoc
// @Summary      Workflow history, most recent first
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Submission ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.ReviewRecord}
// @Failure      404  {object}  common.APIResponse
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) History(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}

	records, err := h.workflow.History(c.Request.Context(), actor, id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, records, nil)
}

// Review godoc
// @Summary      Apply a review decision
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                   true  "Submission ID"
// @Param        request  body  domain.ReviewRequest  true  "Decision"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /reviews/{id} [post]
func (h *ReviewHandler) Review(c *gin.Context) {
	var req domain.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, req.Decision, req.Comments)
}

// Approve godoc
// @Summary      Approve the current stage
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                    true   "Submission ID"
// @Param        request  body  domain.CommentRequest  false  "Comments"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Router       /reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.shortcut(c, domain.DecisionApproved)
}

// Reject godoc
// @Summary      Reject at the current stage
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                    true   "Submission ID"
// @Param        request  body  domain.CommentRequest  false  "Comments"
// @Success      200  {object}  common.APIResponse{data=domain.SubmissionResponse}
// @Router       /reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.shortcut(c, domain.DecisionRejected)
}

// shortcut accepts an empty body
func (h *ReviewHandler) shortcut(c *gin.Context, decision domain.Decision) {
	var req domain.CommentRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	h.apply(c, decision, req.Comments)
}

func (h *ReviewHandler) apply(c *gin.Context, decision domain.Decision, comments string) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := submissionID(c)
	if !ok {
		return
	}

	sub, err := h.workflow.ApplyReview(c.Request.Context(), actor, id, decision, comments)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, sub.ToResponse(), nil)
}
