package handler

import (
	"net/http"
	"strings"

	domainerr "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// MigrationHandler serves the administrative migration list
type MigrationHandler struct {
	listUseCase usecase.MigrationListUseCase
	logger      coreport.Logger
}

// NewMigrationHandler creates a new migration handler instance
func NewMigrationHandler(listUseCase usecase.MigrationListUseCase, logger coreport.Logger) *MigrationHandler {
	return &MigrationHandler{
		listUseCase: listUseCase,
		logger:      logger,
	}
}

// List handles GET /migrations?group=a,b&tag=t&ids=x,y
func (h *MigrationHandler) List(c *gin.Context) {
	access := middleware.AccessFrom(c)
	if !access.HasPermission(coreport.PermissionViewMigrateReports) && !access.HasPermission(coreport.PermissionAdministerMigration) {
		respondError(c, h.logger, "listing migrations", domainerr.ErrAccessDenied)
		return
	}

	filter := persistence.MigrationFilter{
		IDs:    splitList(c.Query("ids")),
		Groups: splitList(c.Query("group")),
		Tag:    strings.TrimSpace(c.Query("tag")),
	}

	rows, err := h.listUseCase.Rows(c.Request.Context(), filter, access)
	if err != nil {
		respondError(c, h.logger, "listing migrations", err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMigrationListResponse(rows))
}

// splitList splits a comma separated query value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
