package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/entities"
)

type AuthController struct {
	service        *auth.Service
	sessionManager *auth.SessionManager
}

func NewAuthController(service *auth.Service, sessionManager *auth.SessionManager) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
	}
}

type registerRequest struct {
	UserType     string `json:"user_type" binding:"required"`
	UserFullName string `json:"user_full_name" binding:"required"`
	AdmissionID  string `json:"admission_id"`
	EmployeeID   string `json:"employee_id"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	Address      string `json:"address"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	IsAdmin      bool   `json:"is_admin"`
}

type signInRequest struct {
	AdmissionID string `json:"admission_id"`
	EmployeeID  string `json:"employee_id"`
	Email       string `json:"email"`
	Password    string `json:"password" binding:"required"`
}

func (controller *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := controller.service.Register(auth.CallerFromContext(c), auth.RegisterRequest{
		UserType:     entities.UserType(req.UserType),
		UserFullName: req.UserFullName,
		AdmissionID:  req.AdmissionID,
		EmployeeID:   req.EmployeeID,
		Age:          req.Age,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Address:      req.Address,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Password:     req.Password,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	respondCreated(c, user)
}

func (controller *AuthController) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := controller.service.SignIn(req.AdmissionID, req.EmployeeID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		if errors.Is(err, auth.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "wrong password"})
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	if err := controller.sessionManager.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (controller *AuthController) SignOut(c *gin.Context) {
	if err := controller.sessionManager.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to destroy session"})
		return
	}
	respondSuccess(c, "Signed out")
}
