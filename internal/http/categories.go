package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/library"
)

type CategoriesController struct {
	service *library.Service
}

func NewCategoriesController(service *library.Service) *CategoriesController {
	return &CategoriesController{
		service: service,
	}
}

type addCategoryRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
}

func (controller *CategoriesController) GetAllCategories(c *gin.Context) {
	categories, err := controller.service.AllCategories()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

func (controller *CategoriesController) AddCategory(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	category, err := controller.service.AddCategory(auth.CallerFromContext(c), req.CategoryName)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, category)
}

func (controller *CategoriesController) RemoveCategory(c *gin.Context) {
	err := controller.service.DeleteCategory(auth.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Category has been deleted")
}
