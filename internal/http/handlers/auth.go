package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/speechfun/speechfun-backend/internal/http/response"
	"github.com/speechfun/speechfun-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"detail": "verification email sent, please check your inbox",
		"email":  user.Email,
	})
}

func (ah *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	result, err := ah.authService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	message := "email verified, you can now log in"
	if result.AlreadyVerified {
		message = "email already verified"
	}
	response.RespondOK(c, gin.H{
		"user":    result.User,
		"message": message,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}
