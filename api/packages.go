package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/pvaldes/travelbooking/internal/service/catalog"
)

type PackageHandler struct {
	service catalog.CatalogUseCase
	auth    *AuthMiddleware
}

type updatePackageRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Price           *float64   `json:"price"`
	DurationDays    *int       `json:"duration_days"`
	MaxParticipants *int       `json:"max_participants"`
	Location        *string    `json:"location"`
	Includes        *[]string  `json:"includes"`
	AvailableFrom   *time.Time `json:"available_from"`
	AvailableTo     *time.Time `json:"available_to"`
	CostPrice       *float64   `json:"cost_price"`
}

// publicPackage is the package view served without authentication.
// cost_price never appears here.
type publicPackage struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationDays    int       `json:"duration_days"`
	MaxParticipants int       `json:"max_participants"`
	Location        string    `json:"location"`
	Includes        []string  `json:"includes"`
	AvailableFrom   time.Time `json:"available_from"`
	AvailableTo     time.Time `json:"available_to"`
	IsActive        bool      `json:"is_active"`
}

func NewPackageHandler(service catalog.CatalogUseCase, auth *AuthMiddleware) *PackageHandler {
	return &PackageHandler{service: service, auth: auth}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	authenticated := h.auth.Authenticate()

	router.POST("/packages", authenticated, RequireAdmin(), h.create)
	router.GET("/packages", authenticated, RequireUser(), h.list)
	router.GET("/packages/public", h.listPublic)
	router.GET("/packages/:id", h.get)
	router.PUT("/packages/:id", authenticated, RequireAdmin(), h.update)
	router.DELETE("/packages/:id", authenticated, RequireAdmin(), h.remove)
}

func (h *PackageHandler) create(c *gin.Context) {
	var req catalog.CreatePackageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Package created successfully",
		"package": pkg,
	})
}

func (h *PackageHandler) list(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if packages == nil {
		packages = []domain.Package{}
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": packages,
		"total":    len(packages),
	})
}

func (h *PackageHandler) listPublic(c *gin.Context) {
	packages, err := h.service.ListAvailablePackages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	view := make([]publicPackage, 0, len(packages))
	for _, p := range packages {
		view = append(view, toPublicPackage(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"packages": view,
		"total":    len(view),
	})
}

func (h *PackageHandler) get(c *gin.Context) {
	pkg, err := h.service.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPublicPackage(*pkg))
}

func (h *PackageHandler) update(c *gin.Context) {
	var req updatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.service.UpdatePackage(c.Request.Context(), c.Param("id"), domain.PackageUpdate{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		MaxParticipants: req.MaxParticipants,
		Location:        req.Location,
		Includes:        req.Includes,
		AvailableFrom:   req.AvailableFrom,
		AvailableTo:     req.AvailableTo,
		CostPrice:       req.CostPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Package updated successfully",
		"package": pkg,
	})
}

func (h *PackageHandler) remove(c *gin.Context) {
	if err := h.service.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Package deleted successfully"})
}

func toPublicPackage(p domain.Package) publicPackage {
	return publicPackage{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DurationDays:    p.DurationDays,
		MaxParticipants: p.MaxParticipants,
		Location:        p.Location,
		Includes:        p.Includes,
		AvailableFrom:   p.AvailableFrom,
		AvailableTo:     p.AvailableTo,
		IsActive:        p.IsActive,
	}
}
