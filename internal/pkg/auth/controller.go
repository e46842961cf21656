package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginController handles the login endpoint.
type LoginController struct {
	UC *LoginUseCase
}

func NewLoginController(uc *LoginUseCase) *LoginController {
	return &LoginController{UC: uc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handle returns a gin handler for POST /auth/login.
func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, LoginInput{Email: req.Email, Password: req.Password})
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
			return
		case errors.Is(err, ErrAccountInactive):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "account is not active"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "login failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged in",
			"data": gin.H{
				"accessToken": result.AccessToken,
				"user": gin.H{
					"id":     result.User.ID,
					"name":   result.User.Name,
					"email":  result.User.Email,
					"avatar": result.User.Avatar,
					"role":   result.User.Role,
				},
			},
		})
	}
}
