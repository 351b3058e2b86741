package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/database"
)

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

func (controller *HealthController) Status(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	sqlDB, err := controller.db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbStatus,
		"version":  controller.version,
	})
}
