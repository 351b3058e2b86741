package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/library"
)

// AdminController exposes maintenance operations.
type AdminController struct {
	service *library.Service
}

func NewAdminController(service *library.Service) *AdminController {
	return &AdminController{
		service: service,
	}
}

// Reconcile runs a consistency sweep on demand and reports the repairs.
func (controller *AdminController) Reconcile(c *gin.Context) {
	report, err := controller.service.Reconcile(auth.CallerFromContext(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
