package service

import (
	"context"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type RecordPaymentRequest struct {
	UserID        uuid.UUID       `json:"user_id" binding:"required"`
	PlanID        uuid.UUID       `json:"plan_id" binding:"required"`
	UserType      string          `json:"user_type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	TransactionID string          `json:"transaction_id" binding:"required"`
	Status        string          `json:"status"`
}

type RefundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GatewaySettings exposes the publishable halves of the configured gateways.
// Secrets never leave the process.
type GatewaySettings struct {
	RazorpayKeyID      string `json:"razorpay_key_id"`
	RazorpayConfigured bool   `json:"razorpay_configured"`
	StripePublishable  string `json:"stripe_publishable_key"`
	StripeConfigured   bool   `json:"stripe_configured"`
}

// --- Interface ---

type PaymentService interface {
	Record(ctx context.Context, req RecordPaymentRequest, actorID *uuid.UUID) (*model.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	List(ctx context.Context, filter repository.PaymentFilter, page, limit int) ([]model.Payment, int64, error)
	Refund(ctx context.Context, id, actorID uuid.UUID, req RefundPaymentRequest) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Payment, error)
	Invoice(ctx context.Context, id uuid.UUID) (map[string]interface{}, error)
	Stats(ctx context.Context) (*repository.PaymentStats, error)
	MonthlyRevenue(ctx context.Context, months int) ([]repository.RevenuePoint, error)
	Gateways(ctx context.Context) *GatewaySettings
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	gateway     config.GatewayConfig
	activity    *ActivityRecorder
}

func NewPaymentService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, gateway config.GatewayConfig, activity *ActivityRecorder) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		subRepo:     subRepo,
		gateway:     gateway,
		activity:    activity,
	}
}

var validPaymentMethods = map[string]bool{
	model.MethodRazorpay: true, model.MethodStripe: true,
	model.MethodBankTransfer: true, model.MethodWallet: true,
}

var validPaymentStatuses = map[string]bool{
	model.PaymentPending: true, model.PaymentCompleted: true, model.PaymentFailed: true,
	model.PaymentRefunded: true, model.PaymentCancelled: true,
}

// Record books an externally processed transaction. No gateway call is made
// here; the gateway has already settled the money.
func (s *paymentService) Record(ctx context.Context, req RecordPaymentRequest, actorID *uuid.UUID) (*model.Payment, error) {
	if req.UserType != model.UserTypeTenant && req.UserType != model.UserTypeLandlord {
		return nil, response.BadRequest("user_type must be tenant or landlord")
	}
	if !validPaymentMethods[req.PaymentMethod] {
		return nil, response.BadRequest("payment_method must be one of: razorpay, stripe, bank_transfer, wallet")
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, response.BadRequest("Amount must be positive")
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, response.BadRequest("User not found")
	}
	if _, err := s.subRepo.FindPlanByID(ctx, req.PlanID); err != nil {
		return nil, response.BadRequest("Plan not found")
	}

	status := req.Status
	if status == "" {
		status = model.PaymentPending
	}
	if !validPaymentStatuses[status] {
		return nil, response.BadRequest("Invalid payment status")
	}
	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	payment := &model.Payment{
		UserID:        req.UserID,
		UserType:      req.UserType,
		PlanID:        req.PlanID,
		Amount:        req.Amount,
		Currency:      currency,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Status:        status,
		ProcessedByID: actorID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if status == model.PaymentCompleted {
		s.activity.Record(ctx, actorID, model.ActivityPaymentCompleted,
			payment.PaymentID, "", "Payment completed: "+payment.PaymentID)
	}
	return s.paymentRepo.FindByID(ctx, payment.ID)
}

func (s *paymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Payment not found")
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, filter repository.PaymentFilter, page, limit int) ([]model.Payment, int64, error) {
	return s.paymentRepo.List(ctx, filter, page, limit)
}

// Refund marks a completed payment refunded. The amount defaults to the full
// payment and may not exceed it. The write is direct, no gateway roundtrip.
func (s *paymentService) Refund(ctx context.Context, id, actorID uuid.UUID, req RefundPaymentRequest) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Payment not found")
	}
	if payment.Status != model.PaymentCompleted {
		return nil, response.BadRequest("Only completed payments can be refunded")
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = payment.Amount
	}
	if amount.IsNegative() {
		return nil, response.BadRequest("Refund amount cannot be negative")
	}
	if amount.GreaterThan(payment.Amount) {
		return nil, response.BadRequest("Refund amount cannot exceed the payment amount")
	}

	now := time.Now()
	payment.Status = model.PaymentRefunded
	payment.RefundAmount = amount
	payment.RefundReason = req.Reason
	payment.RefundedAt = &now
	payment.ProcessedByID = &actorID
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actorID, model.ActivityPaymentRefunded,
		payment.PaymentID, "", "Payment refunded: "+payment.PaymentID)
	return payment, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Payment, error) {
	if !validPaymentStatuses[status] {
		return nil, response.BadRequest("Invalid payment status")
	}
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Payment not found")
	}
	previous := payment.Status
	payment.Status = status
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	if status == model.PaymentCompleted && previous != model.PaymentCompleted {
		s.activity.Record(ctx, nil, model.ActivityPaymentCompleted,
			payment.PaymentID, "", "Payment completed: "+payment.PaymentID)
	}
	return payment, nil
}

// Invoice renders the flat data block the frontend prints as an invoice.
func (s *paymentService) Invoice(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Payment not found")
	}
	if payment.Status != model.PaymentCompleted && payment.Status != model.PaymentRefunded {
		return nil, response.BadRequest("Invoices are only available for completed payments")
	}

	invoice := map[string]interface{}{
		"invoice_no":     "INV-" + payment.PaymentID,
		"payment_id":     payment.PaymentID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
		"currency":       payment.Currency,
		"payment_method": payment.PaymentMethod,
		"status":         payment.Status,
		"date":           payment.CreatedAt,
	}
	if payment.User != nil {
		invoice["customer_name"] = payment.User.Name
		invoice["customer_email"] = payment.User.Email
	}
	if payment.Plan != nil {
		invoice["plan_name"] = payment.Plan.Name
	}
	return invoice, nil
}

func (s *paymentService) Stats(ctx context.Context) (*repository.PaymentStats, error) {
	return s.paymentRepo.Stats(ctx)
}

func (s *paymentService) MonthlyRevenue(ctx context.Context, months int) ([]repository.RevenuePoint, error) {
	if months <= 0 || months > 24 {
		months = 12
	}
	return s.paymentRepo.MonthlyRevenue(ctx, months)
}

func (s *paymentService) Gateways(ctx context.Context) *GatewaySettings {
	return &GatewaySettings{
		RazorpayKeyID:      s.gateway.RazorpayKeyID,
		RazorpayConfigured: s.gateway.RazorpayKeyID != "" && s.gateway.RazorpayKeySecret != "",
		StripePublishable:  s.gateway.StripePublishable,
		StripeConfigured:   s.gateway.StripePublishable != "" && s.gateway.StripeSecret != "",
	}
}
