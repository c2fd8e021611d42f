package handlers

import (
	"net/http"

	"burim-estate/internal/database"
	"burim-estate/internal/logger"
	"burim-estate/internal/models"

	"github.com/gin-gonic/gin"
)

// InquiryHandler serves inquiry routes
type InquiryHandler struct {
	db  *database.GormDB
	log *logger.Logger
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(db *database.GormDB, log *logger.Logger) *InquiryHandler {
	return &InquiryHandler{db: db, log: log}
}

type inquiryRequest struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

// Create stores a visitor inquiry about a listing
func (h *InquiryHandler) Create(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	inquiry := &models.Inquiry{
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Phone:      req.Phone,
		Message:    req.Message,
	}
	if err := h.db.CreateInquiry(c.Request.Context(), inquiry); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("[Inquiry] New inquiry %s for property %s", inquiry.ID, inquiry.PropertyID)
	c.JSON(http.StatusCreated, inquiry)
}

// List returns every inquiry, newest first
func (h *InquiryHandler) List(c *gin.Context) {
	inquiries, err := h.db.ListInquiries(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"inquiries": inquiries,
		"count":     len(inquiries),
	})
}

// Delete removes an inquiry
func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.db.DeleteInquiry(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
}
