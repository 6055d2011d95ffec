package handlers

import (
	"net/http"

	"staybook/middleware"
	"staybook/services/listing"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// ListingHandler exposes the listing collaborator over HTTP.
type ListingHandler struct {
	Service listing.ListingService
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(svc listing.ListingService) *ListingHandler {
	return &ListingHandler{Service: svc}
}

// CreateListing handles POST /api/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var input listing.CreateListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	l, err := h.Service.CreateListing(c.Request.Context(), middleware.CallerID(c), input)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create listing", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": l})
}

// GetListing handles GET /api/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	l, err := h.Service.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "listing not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// ListActiveListings handles GET /api/listings.
func (h *ListingHandler) ListActiveListings(c *gin.Context) {
	results, err := h.Service.ListActiveListings(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list listings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": results})
}

// ListMyListings handles GET /api/listings/mine.
func (h *ListingHandler) ListMyListings(c *gin.Context) {
	results, err := h.Service.ListHostListings(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list listings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": results})
}
