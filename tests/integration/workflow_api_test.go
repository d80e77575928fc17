package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diwan-maarifa/diwan-backend/internal/config"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/handler"
	"github.com/diwan-maarifa/diwan-backend/internal/migration"
	"github.com/diwan-maarifa/diwan-backend/internal/repository"
	"github.com/diwan-maarifa/diwan-backend/internal/routes"
	"github.com/diwan-maarifa/diwan-backend/internal/service"
	"github.com/diwan-maarifa/diwan-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// WorkflowAPISuite drives the full router over an in-memory database
type WorkflowAPISuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *jwt.Manager
	tokens     map[domain.Role]string
}

func TestWorkflowAPISuite(t *testing.T) {
	suite.Run(t, new(WorkflowAPISuite))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *WorkflowAPISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(migration.Run(context.Background(), db))
	s.db = db

	ledger := repository.NewReviewRepository(db)
	subs := repository.NewSubmissionRepository(db, ledger)
	categories := repository.NewCategoryRepository(db)

	workflow := service.NewWorkflowService(subs, ledger, categories)
	publication := service.NewPublicationService(subs, nil, nil)
	search := service.NewSearchService(subs, nil)

	s.jwtManager = jwt.NewManager("integration-secret", 900)
	s.router = gin.New()
	routes.Setup(s.router, routes.Handlers{
		Content:    handler.NewContentHandler(workflow, publication, search),
		Review:     handler.NewReviewHandler(workflow),
		Category:   handler.NewCategoryHandler(service.NewCategoryService(categories, publication, nil)),
		Attachment: handler.NewAttachmentHandler(service.NewAttachmentService(repository.NewAttachmentRepository(db), subs, nil, 1<<20)),
	}, s.jwtManager, nil, &config.Config{})

	s.tokens = map[domain.Role]string{}
	for i, role := range []domain.Role{
		domain.RoleContributor, domain.RoleContentAuditor, domain.RoleTechnicalAuditor,
		domain.RoleAdmin, domain.RoleReader,
	} {
		token, err := s.jwtManager.GenerateToken(uint64(100+i), string(role), "")
		s.Require().NoError(err)
		s.tokens[role] = token
	}
}

func (s *WorkflowAPISuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *WorkflowAPISuite) do(method, path string, role domain.Role, body interface{}) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := s.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *WorkflowAPISuite) submission(env envelope) domain.SubmissionResponse {
	var out domain.SubmissionResponse
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	return out
}

func (s *WorkflowAPISuite) createDraft(title string) domain.SubmissionResponse {
	category := uint64(1)
	code, env := s.do(http.MethodPost, "/api/v1/content", domain.RoleContributor, map[string]interface{}{
		"title":        title,
		"content":      "نص المقال",
		"category_id":  category,
		"tags":         []string{"go", "عربي"},
		"content_type": "article",
	})
	s.Require().Equal(http.StatusCreated, code)
	return s.submission(env)
}

func (s *WorkflowAPISuite) TestPublishFlow() {
	draft := s.createDraft("اختبار Test")
	s.Equal(domain.StatusDraft, draft.Status)
	s.Contains(draft.Slug, "اختبار-test-")

	code, env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/content/%d/submit", draft.ID), domain.RoleContributor, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(domain.StatusPendingContentReview, s.submission(env).Status)

	code, env = s.do(http.MethodGet, "/api/v1/reviews/pending", domain.RoleContentAuditor, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Require().NotNil(env.Meta)
	s.Equal(int64(1), env.Meta.Total)

	code, env = s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/approve", draft.ID), domain.RoleContentAuditor, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(domain.StatusPendingTechnicalReview, s.submission(env).Status)

	code, env = s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d", draft.ID), domain.RoleTechnicalAuditor,
		map[string]string{"decision": "approved", "comments": "جيد"})
	s.Require().Equal(http.StatusOK, code)
	s.Equal(domain.StatusApproved, s.submission(env).Status)

	code, env = s.do(http.MethodPut, fmt.Sprintf("/api/v1/content/%d/publish", draft.ID), domain.RoleAdmin, nil)
	s.Require().Equal(http.StatusOK, code)
	published := s.submission(env)
	s.Equal(domain.StatusPublished, published.Status)
	s.NotNil(published.PublishedAt)

	code, env = s.do(http.MethodGet, "/api/v1/content?content_type=article", "", nil)
	s.Require().Equal(http.StatusOK, code)
	var items []domain.SubmissionResponse
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Require().Len(items, 1)
	s.Equal(draft.ID, items[0].ID)

	code, env = s.do(http.MethodGet, "/api/v1/content/slug/"+draft.Slug, "", nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(int64(1), s.submission(env).ViewCount)

	code, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/reviews/%d", draft.ID), domain.RoleContributor, nil)
	s.Require().Equal(http.StatusOK, code)
	var history []domain.ReviewRecord
	s.Require().NoError(json.Unmarshal(env.Data, &history))
	s.Len(history, 4)
}

func (s *WorkflowAPISuite) TestAuthErrors() {
	code, _ := s.do(http.MethodPost, "/api/v1/content", "", map[string]string{"title": "x"})
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/v1/content", domain.RoleReader, map[string]string{
		"title": "x", "content": "y", "content_type": "term",
	})
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/reviews/pending", domain.RoleContributor, nil)
	s.Equal(http.StatusForbidden, code)

	draft := s.createDraft("Term")
	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/content/%d/publish", draft.ID), domain.RoleContentAuditor, nil)
	s.Equal(http.StatusForbidden, code)
}

func (s *WorkflowAPISuite) TestWrongStageAndMissing() {
	draft := s.createDraft("Stage")

	// still a draft, not reviewable
	code, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/approve", draft.ID), domain.RoleContentAuditor, nil)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/content/%d/submit", draft.ID), domain.RoleContributor, nil)
	s.Require().Equal(http.StatusOK, code)

	// technical auditor cannot take the content stage
	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/approve", draft.ID), domain.RoleTechnicalAuditor, nil)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/content/slug/does-not-exist", "", nil)
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/content/99999", domain.RoleAdmin, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *WorkflowAPISuite) TestReviewFollowsCurrentStage() {
	draft := s.createDraft("Race")
	code, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/content/%d/submit", draft.ID), domain.RoleContributor, nil)
	s.Require().Equal(http.StatusOK, code)

	// move the row underneath the reviewer
	s.Require().NoError(s.db.Model(&domain.Submission{}).
		Where("id = ?", draft.ID).
		Update("status", domain.StatusPendingTechnicalReview).Error)

	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/approve", draft.ID), domain.RoleContentAuditor, nil)
	s.Equal(http.StatusForbidden, code)

	code, env := s.do(http.MethodPost, fmt.Sprintf("/api/v1/reviews/%d/approve", draft.ID), domain.RoleTechnicalAuditor, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Equal(domain.StatusApproved, s.submission(env).Status)
}

func (s *WorkflowAPISuite) TestCategoriesAreSeeded() {
	code, env := s.do(http.MethodGet, "/api/v1/categories", "", nil)
	s.Require().Equal(http.StatusOK, code)

	var categories []domain.Category
	s.Require().NoError(json.Unmarshal(env.Data, &categories))
	s.Len(categories, len(migration.DefaultCategories()))
}

func (s *WorkflowAPISuite) TestUploadWithoutStorage() {
	code, _ := s.do(http.MethodPost, "/api/v1/attachments", domain.RoleContributor, nil)
	s.Equal(http.StatusBadRequest, code)
}
