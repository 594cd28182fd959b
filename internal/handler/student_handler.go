package handler

import (
	"net/http"
	"strconv"

	"github.com/campushq/campus-backend/internal/common"
	"github.com/campushq/campus-backend/internal/domain"
	"github.com/campushq/campus-backend/internal/middleware"
	"github.com/campushq/campus-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// StudentHandler handles student endpoints
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// Create enrolls a student
// POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req domain.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}

	tenantID := middleware.GetTenantID(c)

	student, err := h.studentService.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.CreatedResponse(c, student)
}

// List lists students for the tenant
// GET /api/v1/students?page=1&per_page=20
func (h *StudentHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	page := 1
	if val, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && val > 0 {
		page = val
	}
	perPage := 20
	if val, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && val > 0 {
		perPage = val
	}

	students, total, err := h.studentService.List(c.Request.Context(), tenantID, page, perPage)
	if err != nil {
		common.AppErrorResponse(c, err)
		return
	}

	common.SuccessResponse(c, students, &common.Meta{Page: page, Limit: perPage, Total: total})
}
