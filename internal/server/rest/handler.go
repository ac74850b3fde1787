package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datalyst-app/authd/internal/common"
)

type signUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Otp         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// statusFromError maps service sentinels to HTTP statuses. Anything
// unrecognized is an internal error with an opaque body.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorAccountExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorInvalidRecoveryCode):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func (s *Server) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.accounts.SignUp(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "signup", "email", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (s *Server) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := s.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.accounts.RequestRecovery(c.Request.Context(), req.Email)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.accounts.ConfirmRecovery(c.Request.Context(), req.Email, req.Otp, req.NewPassword)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (s *Server) Me(c *gin.Context) {
	subject := c.GetString(subjectKey)

	account, err := s.accounts.GetProfile(c.Request.Context(), subject)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      account.Email,
		"first_name": account.FirstName,
		"last_name":  account.LastName,
	})
}
