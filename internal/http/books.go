package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/library"
)

type BooksController struct {
	service *library.Service
}

func NewBooksController(service *library.Service) *BooksController {
	return &BooksController{
		service: service,
	}
}

type addBookRequest struct {
	BookName           string   `json:"book_name" binding:"required"`
	AlternateTitle     string   `json:"alternate_title"`
	Author             string   `json:"author" binding:"required"`
	Language           string   `json:"language"`
	Publisher          string   `json:"publisher"`
	BookCountAvailable int      `json:"book_count_available"`
	Categories         []string `json:"categories"`
}

type updateBookRequest struct {
	BookName           *string   `json:"book_name"`
	AlternateTitle     *string   `json:"alternate_title"`
	Author             *string   `json:"author"`
	Language           *string   `json:"language"`
	Publisher          *string   `json:"publisher"`
	BookCountAvailable *int      `json:"book_count_available"`
	Categories         *[]string `json:"categories"`
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.service.AllBooks()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBookByID(c *gin.Context) {
	book, err := controller.service.GetBook(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) GetBooksByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		respondBadRequest(c, "category query parameter is required")
		return
	}

	books, err := controller.service.BooksByCategory(category)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book, err := controller.service.CreateBook(auth.CallerFromContext(c), library.BookSpec{
		BookName:           req.BookName,
		AlternateTitle:     req.AlternateTitle,
		Author:             req.Author,
		Language:           req.Language,
		Publisher:          req.Publisher,
		BookCountAvailable: req.BookCountAvailable,
		Categories:         req.Categories,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err := controller.service.UpdateBook(auth.CallerFromContext(c), c.Param("id"), library.BookPatch{
		BookName:           req.BookName,
		AlternateTitle:     req.AlternateTitle,
		Author:             req.Author,
		Language:           req.Language,
		Publisher:          req.Publisher,
		BookCountAvailable: req.BookCountAvailable,
		Categories:         req.Categories,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Book details updated successfully")
}

func (controller *BooksController) RemoveBook(c *gin.Context) {
	err := controller.service.DeleteBook(auth.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Book has been deleted")
}
