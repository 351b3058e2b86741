package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	dbusers "github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/library"
)

type UsersController struct {
	service *library.Service
	// bcryptCost is used when a profile update carries a new password.
	bcryptCost int
}

func NewUsersController(service *library.Service, bcryptCost int) *UsersController {
	return &UsersController{
		service:    service,
		bcryptCost: bcryptCost,
	}
}

type updateUserRequest struct {
	UserType     *string `json:"user_type"`
	UserFullName *string `json:"user_full_name"`
	Age          *int    `json:"age"`
	Gender       *string `json:"gender"`
	DOB          *string `json:"dob"`
	Address      *string `json:"address"`
	MobileNumber *string `json:"mobile_number"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Points       *int    `json:"points"`
}

type moveTransactionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (controller *UsersController) GetUserByID(c *gin.Context) {
	user, err := controller.service.GetMember(c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (controller *UsersController) GetAllMembers(c *gin.Context) {
	users, err := controller.service.AllMembers()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (controller *UsersController) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	patch := library.UserPatch{
		UserFullName: req.UserFullName,
		Age:          req.Age,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Address:      req.Address,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Points:       req.Points,
	}
	if req.UserType != nil {
		userType := entities.UserType(*req.UserType)
		patch.UserType = &userType
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, controller.bcryptCost)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		patch.PasswordHash = &hash
	}

	err := controller.service.UpdateMember(auth.CallerFromContext(c), c.Param("id"), patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Account has been updated")
}

// MoveToActiveTransactions appends a transaction to a user's active set.
// The URL parameter is the transaction ID, matching AddTransaction's output.
func (controller *UsersController) MoveToActiveTransactions(c *gin.Context) {
	var req moveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	caller := auth.CallerFromContext(c)
	if !caller.IsAdmin {
		respondDomainError(c, library.NewPermissionError("admin privileges required"))
		return
	}

	err := controller.service.MoveUserTransaction(req.UserID, c.Param("id"),
		dbusers.FieldPrevTransactions, dbusers.FieldActiveTransactions)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Added to active transactions")
}

// MoveToPrevTransactions migrates a transaction from the user's active set
// to the previous set.
func (controller *UsersController) MoveToPrevTransactions(c *gin.Context) {
	var req moveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	caller := auth.CallerFromContext(c)
	if !caller.IsAdmin {
		respondDomainError(c, library.NewPermissionError("admin privileges required"))
		return
	}

	err := controller.service.MoveUserTransaction(req.UserID, c.Param("id"),
		dbusers.FieldActiveTransactions, dbusers.FieldPrevTransactions)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Moved to previous transactions")
}

func (controller *UsersController) DeleteUser(c *gin.Context) {
	err := controller.service.DeleteMember(auth.CallerFromContext(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, "Account has been deleted")
}
