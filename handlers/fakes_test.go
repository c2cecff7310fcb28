package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"servio/middleware"
	"servio/models"
	"servio/services/booking"
	"servio/services/revenue"
	"servio/services/tier"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	adminActor    = models.Actor{ID: "adm-1", Role: models.RoleAdmin}
	providerActor = models.Actor{ID: "prov-1", Role: models.RoleProvider, BusinessID: "biz-1"}
)

// newRouter mounts h at method/path behind a stub auth step that installs actor.
func newRouter(actor *models.Actor, method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if actor != nil {
			middleware.SetActor(c, *actor)
		}
		c.Next()
	}, h)
	return r
}

func do(t *testing.T, r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

type fakeBookings struct {
	transition func(req booking.TransitionRequest) (*models.Booking, error)
	reschedule func(req booking.RescheduleRequest) (*models.Booking, error)
	note       func(id, text string, actor models.Actor) (*models.Booking, error)
	get        func(id string, actor models.Actor) (*models.Booking, error)
	history    func(id string, actor models.Actor) ([]models.BookingAuditEntry, error)
}

func (f *fakeBookings) Transition(_ context.Context, req booking.TransitionRequest) (*models.Booking, error) {
	return f.transition(req)
}

func (f *fakeBookings) Reschedule(_ context.Context, req booking.RescheduleRequest) (*models.Booking, error) {
	return f.reschedule(req)
}

func (f *fakeBookings) AddProviderNote(_ context.Context, id, text string, actor models.Actor) (*models.Booking, error) {
	return f.note(id, text, actor)
}

func (f *fakeBookings) Get(_ context.Context, id string, actor models.Actor) (*models.Booking, error) {
	return f.get(id, actor)
}

func (f *fakeBookings) History(_ context.Context, id string, actor models.Actor) ([]models.BookingAuditEntry, error) {
	return f.history(id, actor)
}

type fakeRateTable struct {
	cfg       *models.CommissionConfig
	setErr    error
	gotRates  map[string]float64
	gotReason string
	gotTier   models.Tier
	gotLimit  int
}

func (f *fakeRateTable) Rates(context.Context) (*models.CommissionConfig, error) {
	return f.cfg, nil
}

func (f *fakeRateTable) SetRates(_ context.Context, rates map[string]float64, reason string, actor models.Actor) (*models.CommissionConfig, []models.CommissionRateChange, error) {
	f.gotRates, f.gotReason = rates, reason
	if f.setErr != nil {
		return nil, nil, f.setErr
	}
	return f.cfg, []models.CommissionRateChange{{Tier: models.TierNew, OldRate: 15, NewRate: 12, ChangedBy: actor.ID}}, nil
}

func (f *fakeRateTable) History(_ context.Context, t models.Tier, limit int) ([]models.CommissionRateChange, error) {
	f.gotTier, f.gotLimit = t, limit
	return nil, nil
}

type fakeTiers struct {
	state      *models.ProviderTierState
	evaluated  bool
	computed   bool
	recomputed bool
}

func (f *fakeTiers) Current(context.Context, string) (*models.ProviderTierState, bool, error) {
	return f.state, f.evaluated, nil
}

func (f *fakeTiers) Compute(context.Context, string) (*models.ProviderTierState, *models.ProviderProfile, error) {
	f.computed = true
	return f.state, &models.ProviderProfile{ID: f.state.ProviderID}, nil
}

func (f *fakeTiers) Recompute(context.Context, string) (*models.ProviderTierState, error) {
	f.recomputed = true
	return f.state, nil
}

type fakeMigrator struct {
	report  *tier.MigrationReport
	pending int
}

func (f *fakeMigrator) MigrateLegacyProviders(context.Context) (*tier.MigrationReport, error) {
	return f.report, nil
}

func (f *fakeMigrator) PendingCount(context.Context) (int, error) {
	return f.pending, nil
}

type fakeReporter struct {
	timeframe string
}

func (f *fakeReporter) Report(_ context.Context, timeframe string) (*revenue.PeriodReport, error) {
	f.timeframe = timeframe
	switch timeframe {
	case "7d", "30d", "90d", "1y":
	default:
		return nil, revenue.ErrInvalidTimeframe
	}
	return &revenue.PeriodReport{Timeframe: timeframe}, nil
}

type fakePayments struct {
	status models.PaymentStatus
	err    error
}

func (f *fakePayments) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) (*models.PaymentTransaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.status = status
	return &models.PaymentTransaction{ID: id, PaymentStatus: status}, nil
}
