package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/library"
)

type TransactionsController struct {
	service *library.Service
}

func NewTransactionsController(service *library.Service) *TransactionsController {
	return &TransactionsController{
		service: service,
	}
}

type addTransactionRequest struct {
	BookID          string `json:"book_id" binding:"required"`
	BorrowerID      string `json:"borrower_id" binding:"required"`
	TransactionType string `json:"transaction_type" binding:"required"`
	FromDate        string `json:"from_date" binding:"required"`
	ToDate          string `json:"to_date" binding:"required"`
}

type updateTransactionRequest struct {
	FromDate *string `json:"from_date"`
	ToDate   *string `json:"to_date"`
}

type returnTransactionRequest struct {
	ReturnDate string `json:"return_date" binding:"required"`
}

func (controller *TransactionsController) AddTransaction(c *gin.Context) {
	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tx, err := controller.service.IssueOrReserve(auth.CallerFromContext(c), library.IssueSpec{
		BookID:     req.BookID,
		BorrowerID: req.BorrowerID,
		Type:       entities.TransactionType(req.TransactionType),
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondCreated(c, tx)
}

// GetTransactionsForBorrower lists one borrower's transaction history.
func (controller *TransactionsController) GetTransactionsForBorrower(c *gin.Context) {
	transactions, err := controller.service.TransactionsForBorrower(auth.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

func (controller *TransactionsController) GetAllTransactions(c *gin.Context) {
	transactions, err := controller.service.AllTransactions()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

func (controller *TransactionsController) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err := controller.service.UpdateTransaction(auth.CallerFromContext(c), c.Param("id"), library.TransactionPatch{
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Transaction details updated successfully")
}

func (controller *TransactionsController) ReturnTransaction(c *gin.Context) {
	var req returnTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err := controller.service.ReturnTransaction(auth.CallerFromContext(c), c.Param("id"), req.ReturnDate)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Transaction returned successfully")
}

func (controller *TransactionsController) RemoveTransaction(c *gin.Context) {
	err := controller.service.DeleteTransaction(auth.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Transaction deleted successfully")
}
