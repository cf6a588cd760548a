package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"storefront-api/internal/user"
	"storefront-api/internal/validation"
)

type AuthHandler struct {
	users    user.Service
	validate *validatorv10.Validate
}

func NewAuthHandler(users user.Service, v *validatorv10.Validate) *AuthHandler {
	return &AuthHandler{users: users, validate: v}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	token, u, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	token, u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setAccessCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

func setAccessCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", token, 24*3600, "/", "", false, true)
}
