package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	UpdateBookingStatus gin.HandlerFunc
	RescheduleBooking   gin.HandlerFunc
	AddBookingNote      gin.HandlerFunc
	GetBooking          gin.HandlerFunc
	GetBookingHistory   gin.HandlerFunc

	// Commission endpoints
	GetCommissionRates   gin.HandlerFunc
	SetCommissionRates   gin.HandlerFunc
	GetCommissionHistory gin.HandlerFunc
	UpdatePaymentStatus  gin.HandlerFunc
	GetRevenueReport     gin.HandlerFunc

	// Provider tier endpoints
	GetProviderTier       gin.HandlerFunc
	RecomputeProviderTier gin.HandlerFunc

	// Admin endpoints
	MigrateProviderTiers gin.HandlerFunc
	PendingProviderTiers gin.HandlerFunc

	ListNotifications gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into a bundle.
func NewHandlerBundle(b *BookingHandler, cm *CommissionHandler, tx *TransactionHandler, rv *RevenueHandler, t *TierHandler, a *AdminHandler, n *NotificationHandler) *HandlerBundle {
	return &HandlerBundle{
		UpdateBookingStatus: b.UpdateStatus,
		RescheduleBooking:   b.Reschedule,
		AddBookingNote:      b.AddNote,
		GetBooking:          b.Get,
		GetBookingHistory:   b.History,

		GetCommissionRates:   cm.GetRates,
		SetCommissionRates:   cm.SetRates,
		GetCommissionHistory: cm.History,
		UpdatePaymentStatus:  tx.UpdatePaymentStatus,
		GetRevenueReport:     rv.Revenue,

		GetProviderTier:       t.GetTier,
		RecomputeProviderTier: t.Recompute,

		MigrateProviderTiers: a.MigrateProviderTiers,
		PendingProviderTiers: a.PendingProviderTiers,

		ListNotifications: n.List,
	}
}
