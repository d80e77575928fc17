package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/middleware"
	"github.com/diwan-maarifa/diwan-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindJSON decodes and validates the request body, writing a 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Validation failed", describeValidation(err))
		return false
	}
	return true
}

// describeValidation flattens validator errors into "field: rule" pairs
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return errors.New(strings.Join(parts, ", "))
}

// submissionID parses the :id path parameter, writing a 400 on failure
func submissionID(c *gin.Context) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil || id == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid submission ID", err)
		return 0, false
	}
	return id, true
}

// caller returns the principal set by JWTAuth, writing a 401 when absent
func caller(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
	}
	return p, ok
}
