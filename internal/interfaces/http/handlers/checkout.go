// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/domain/checkout"
	"github.com/your-org/foodorder-backend/internal/pkg/receipt"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout and payment endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	receiptService  *receipt.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(db, redisClient, cfg, log),
		receiptService:  receipt.NewService(cfg),
		config:          cfg,
	}
}

// ListPaymentMethods handles GET /checkout/methods
func (h *CheckoutHandler) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    h.checkoutService.ListMethods(),
	})
}

// SelectPaymentMethod handles PUT /checkout/method
func (h *CheckoutHandler) SelectPaymentMethod(c *gin.Context) {
	sessionID := resolveSessionID(c)

	var req checkout.SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	method, err := h.checkoutService.SelectMethod(sessionID, req.MethodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method selected successfully",
		"data":    method,
	})
}

// Pay handles POST /checkout/pay
func (h *CheckoutHandler) Pay(c *gin.Context) {
	sessionID := resolveSessionID(c)

	// The body is optional; an empty body pays with the selected method
	var req checkout.PayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}
	}

	attempt, err := h.checkoutService.Pay(c.Request.Context(), sessionID, &req)
	if err != nil {
		c.JSON(h.statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Payment attempt submitted",
		"data":    attempt,
	})
}

// GetStatus handles GET /checkout/status
func (h *CheckoutHandler) GetStatus(c *gin.Context) {
	sessionID := resolveSessionID(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout status retrieved successfully",
		"data":    h.checkoutService.Status(sessionID),
	})
}

// Acknowledge handles POST /checkout/acknowledge
func (h *CheckoutHandler) Acknowledge(c *gin.Context) {
	sessionID := resolveSessionID(c)

	attempt, err := h.checkoutService.Acknowledge(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(h.statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order completed successfully",
		"data":    attempt,
	})
}

// Retry handles POST /checkout/retry
func (h *CheckoutHandler) Retry(c *gin.Context) {
	sessionID := resolveSessionID(c)

	if err := h.checkoutService.Retry(sessionID); err != nil {
		c.JSON(h.statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout reset for retry",
		"data":    h.checkoutService.Status(sessionID),
	})
}

// FallbackToCash handles POST /checkout/fallback
func (h *CheckoutHandler) FallbackToCash(c *gin.Context) {
	sessionID := resolveSessionID(c)

	method, err := h.checkoutService.FallbackToCash(sessionID)
	if err != nil {
		c.JSON(h.statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method reset to cash",
		"data":    method,
	})
}

// Cancel handles POST /checkout/cancel
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	sessionID := resolveSessionID(c)

	h.checkoutService.Cancel(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout cancelled",
		"data":    h.checkoutService.Status(sessionID),
	})
}

// DownloadReceipt handles GET /checkout/receipt. The receipt is only
// available while the attempt sits in Succeeded, before the client
// acknowledges it.
func (h *CheckoutHandler) DownloadReceipt(c *gin.Context) {
	sessionID := resolveSessionID(c)

	status := h.checkoutService.Status(sessionID)
	if status.Status != checkout.StatusSucceeded || status.Attempt == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No completed payment to print",
		})
		return
	}

	pdf, err := h.receiptService.Generate(status.Attempt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", status.Attempt.OrderID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// statusForError maps domain errors to HTTP status codes
func (h *CheckoutHandler) statusForError(err error) int {
	switch {
	case errors.Is(err, checkout.ErrAttemptInProgress),
		errors.Is(err, checkout.ErrNoAttempt),
		errors.Is(err, checkout.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, checkout.ErrUnknownMethod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
