package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB, gateway config.GatewayConfig) PaymentService {
	return NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		gateway,
		newTestRecorder(db),
	)
}

func recordTestPayment(t *testing.T, db *gorm.DB, svc PaymentService, status string) *model.Payment {
	t.Helper()
	user := createTestUser(t, db, "payer-"+status+"@example.com")
	plan := &model.SubscriptionPlan{
		Name:         "Plan " + status,
		Price:        decimal.NewFromInt(999),
		DurationDays: 30,
		VisitCredits: 5,
		Status:       model.PlanActive,
	}
	require.NoError(t, db.Create(plan).Error)

	actor := createTestAdmin(t, db, "cashier-"+status+"@example.com", false)
	payment, err := svc.Record(context.Background(), RecordPaymentRequest{
		UserID:        user.ID,
		PlanID:        plan.ID,
		UserType:      model.UserTypeTenant,
		Amount:        decimal.NewFromInt(999),
		PaymentMethod: model.MethodRazorpay,
		TransactionID: "txn_" + status,
		Status:        status,
	}, &actor.ID)
	require.NoError(t, err)
	return payment
}

func TestRecordPaymentDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})

	payment := recordTestPayment(t, db, svc, "")

	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Equal(t, "INR", payment.Currency)
	assert.NotEmpty(t, payment.PaymentID)
}

func TestRecordPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})
	user := createTestUser(t, db, "payer@example.com")

	_, err := svc.Record(context.Background(), RecordPaymentRequest{
		UserID:        user.ID,
		PlanID:        user.ID,
		UserType:      "admin",
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: model.MethodStripe,
		TransactionID: "txn_1",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "user_type must be tenant or landlord", err.Error())

	_, err = svc.Record(context.Background(), RecordPaymentRequest{
		UserID:        user.ID,
		PlanID:        user.ID,
		UserType:      model.UserTypeTenant,
		Amount:        decimal.Zero,
		PaymentMethod: model.MethodStripe,
		TransactionID: "txn_2",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, "Amount must be positive", err.Error())
}

func TestRefundRequiresCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})
	payment := recordTestPayment(t, db, svc, model.PaymentPending)
	actor := createTestAdmin(t, db, "refunder@example.com", false)

	_, err := svc.Refund(context.Background(), payment.ID, actor.ID, RefundPaymentRequest{
		Reason: "mistake",
	})

	require.Error(t, err)
	assert.Equal(t, "Only completed payments can be refunded", err.Error())
}

func TestRefundDefaultsToFullAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})
	payment := recordTestPayment(t, db, svc, model.PaymentCompleted)
	actor := createTestAdmin(t, db, "refunder@example.com", false)

	refunded, err := svc.Refund(context.Background(), payment.ID, actor.ID, RefundPaymentRequest{
		Reason: "duplicate charge",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentRefunded, refunded.Status)
	assert.True(t, refunded.RefundAmount.Equal(payment.Amount))
	assert.NotNil(t, refunded.RefundedAt)
}

func TestRefundCappedAtPaymentAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})
	payment := recordTestPayment(t, db, svc, model.PaymentCompleted)
	actor := createTestAdmin(t, db, "refunder@example.com", false)

	_, err := svc.Refund(context.Background(), payment.ID, actor.ID, RefundPaymentRequest{
		Amount: decimal.NewFromInt(5000),
		Reason: "too generous",
	})

	require.Error(t, err)
	assert.Equal(t, "Refund amount cannot exceed the payment amount", err.Error())
}

func TestInvoiceOnlyForSettledPayments(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{})

	pending := recordTestPayment(t, db, svc, model.PaymentPending)
	_, err := svc.Invoice(context.Background(), pending.ID)
	require.Error(t, err)

	completed := recordTestPayment(t, db, svc, model.PaymentCompleted)
	invoice, err := svc.Invoice(context.Background(), completed.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-"+completed.PaymentID, invoice["invoice_no"])
}

func TestGatewaysHideSecrets(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, config.GatewayConfig{
		RazorpayKeyID:     "rzp_test_123",
		RazorpayKeySecret: "very-secret",
		StripeSecret:      "sk_test_999",
	})

	settings := svc.Gateways(context.Background())

	assert.Equal(t, "rzp_test_123", settings.RazorpayKeyID)
	assert.True(t, settings.RazorpayConfigured)
	assert.False(t, settings.StripeConfigured)
	assert.Empty(t, settings.StripePublishable)
}
