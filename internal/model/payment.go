package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses and methods.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"

	MethodRazorpay     = "razorpay"
	MethodStripe       = "stripe"
	MethodBankTransfer = "bank_transfer"
	MethodWallet       = "wallet"
)

// Payment records a gateway transaction for a subscription plan purchase.
// Refunds are direct status writes; no gateway call happens here.
type Payment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID       string            `gorm:"type:varchar(40);uniqueIndex;not null" json:"payment_id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_payments_user_status" json:"user_id"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserType        string            `gorm:"type:varchar(20);not null" json:"user_type"` // tenant, landlord
	PlanID          uuid.UUID         `gorm:"type:uuid;not null" json:"plan_id"`
	Plan            *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Amount          decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string            `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	PaymentMethod   string            `gorm:"type:varchar(20);not null" json:"payment_method"` // razorpay, stripe, bank_transfer, wallet
	TransactionID   string            `gorm:"type:varchar(100);not null;index" json:"transaction_id"`
	GatewayResponse string            `gorm:"type:text" json:"gateway_response,omitempty"` // raw gateway payload, serialized JSON
	Status          string            `gorm:"type:varchar(20);default:'pending';index:idx_payments_user_status" json:"status"`
	InvoiceURL      string            `gorm:"type:varchar(255)" json:"invoice_url"`
	RefundAmount    decimal.Decimal   `gorm:"type:decimal(12,2);default:0" json:"refund_amount"`
	RefundReason    string            `gorm:"type:varchar(500)" json:"refund_reason"`
	RefundedAt      *time.Time        `json:"refunded_at"`
	ProcessedByID   *uuid.UUID        `gorm:"type:uuid" json:"processed_by_id"`
	ProcessedBy     *Admin            `gorm:"foreignKey:ProcessedByID" json:"processed_by,omitempty"`
	CreatedAt       time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// BeforeCreate fills the ID and assigns a payment identifier when absent.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaymentID == "" {
		p.PaymentID = GeneratePaymentID()
	}
	return nil
}
