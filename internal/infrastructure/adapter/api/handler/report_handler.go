package handler

import (
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves report views and their pages
type ReportHandler struct {
	reportUseCase usecase.ReportUseCase
	logger        coreport.Logger
}

// NewReportHandler creates a new report handler instance
func NewReportHandler(reportUseCase usecase.ReportUseCase, logger coreport.Logger) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
		logger:        logger,
	}
}

// GetView handles GET /views/:viewId
func (h *ReportHandler) GetView(c *gin.Context) {
	view, err := h.authorizedView(c, c.Param("viewId"))
	if err != nil {
		respondError(c, h.logger, "getting view", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewViewResponse(view))
}

// GetReport handles GET /admin/structure/migrate/manage/:group/migrations/:migration/reports?page=N
func (h *ReportHandler) GetReport(c *gin.Context) {
	page := 0
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.CodeInvalidPage,
				Message: "Invalid page number",
			})
			return
		}
		page = n
	}

	viewID := entity.ReportViewID(c.Param("group"), c.Param("migration"))
	if _, err := h.authorizedView(c, viewID); err != nil {
		respondError(c, h.logger, "rendering report", err)
		return
	}

	result, err := h.reportUseCase.Page(c.Request.Context(), viewID, page)
	if err != nil {
		respondError(c, h.logger, "rendering report", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReportResponse(result))
}

// authorizedView loads an enabled view and checks the caller against its page display access
func (h *ReportHandler) authorizedView(c *gin.Context, viewID string) (*entity.ViewSpec, error) {
	view, err := h.reportUseCase.View(c.Request.Context(), viewID)
	if err != nil {
		return nil, err
	}
	if !view.Status {
		return nil, domainerr.ErrViewNotFound
	}

	display, ok := view.Display(entity.DisplayPage)
	if !ok {
		return nil, domainerr.ErrViewNotFound
	}
	if display.Access != nil && !display.Access.Allows(middleware.AccessFrom(c).HasPermission) {
		return nil, domainerr.ErrAccessDenied
	}
	return view, nil
}
