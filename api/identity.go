package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/internal/service/identity"
	"github.com/pvaldes/travelbooking/internal/token"
)

type IdentityHandler struct {
	service identity.IdentityUseCase
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewIdentityHandler(service identity.IdentityUseCase) *IdentityHandler {
	return &IdentityHandler{service: service}
}

func (h *IdentityHandler) Register(router gin.IRoutes) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/me", h.me)
}

func (h *IdentityHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	_, err := h.service.Register(c.Request.Context(), identity.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *IdentityHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	signed, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// me is the remote verification endpoint the other services' auth gates call.
// Expired and invalid are distinct outcomes on purpose: 401 asks the client
// to log in again, 403 means the token never was any good.
func (h *IdentityHandler) me(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.service.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       claims.UserID,
		"email":    claims.Email,
		"is_admin": claims.IsAdmin,
	})
}
