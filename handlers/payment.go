package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"velora/middleware"
	payment "velora/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment recording, gateway webhooks and refunds.
type PaymentHandler struct {
	Service payment.PaymentService
	// WebhookSecret verifies gateway event signatures. Empty disables
	// verification (local development only).
	WebhookSecret string
}

func NewPaymentHandler(svc payment.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{Service: svc, WebhookSecret: webhookSecret}
}

// RecordPayment handles POST /api/payments.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req payment.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	pmt, err := h.Service.Record(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pmt)
}

// GetPayment handles GET /api/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	pmt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pmt)
}

// ListBookingPayments handles GET /api/bookings/:id/payments.
func (h *PaymentHandler) ListBookingPayments(c *gin.Context) {
	payments, err := h.Service.ListByBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.Service.TotalPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "totalPaid": total})
}

// RefundPayment handles POST /api/payments/:id/refund.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	var req payment.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	pmt, err := h.Service.Refund(c.Request.Context(), c.Param("id"), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pmt)
}

// StripeWebhook handles POST /api/payments/webhook. It settles pending
// gateway payments from payment_intent events. Always returns 200 for
// events it does not care about so Stripe stops retrying them.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read payload"})
		return
	}

	var event stripe.Event
	if h.WebhookSecret != "" {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret)
		if err != nil {
			zap.L().Warn("rejected webhook with bad signature", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var succeeded bool
	switch event.Type {
	case "payment_intent.succeeded":
		succeeded = true
	case "payment_intent.payment_failed":
		succeeded = false
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event data"})
		return
	}

	if _, err := h.Service.Settle(c.Request.Context(), intent.ID, succeeded); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
