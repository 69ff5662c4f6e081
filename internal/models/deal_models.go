package models

import "time"

// ProcedureCategory is the clinical procedure a deal bills for.
type ProcedureCategory string

const (
	ProcedureCleaning   ProcedureCategory = "cleaning"
	ProcedureFilling    ProcedureCategory = "filling"
	ProcedureExtraction ProcedureCategory = "extraction"
	ProcedureRootCanal  ProcedureCategory = "root_canal"
	ProcedureCrown      ProcedureCategory = "crown"
)

// IsValid reports whether the value is one of the known procedure categories.
func (p ProcedureCategory) IsValid() bool {
	switch p {
	case ProcedureCleaning, ProcedureFilling, ProcedureExtraction, ProcedureRootCanal, ProcedureCrown:
		return true
	}
	return false
}

// WorkflowStatus tracks where a deal is in the clinical/billing workflow.
type WorkflowStatus string

const (
	StatusOpen       WorkflowStatus = "open"
	StatusInProgress WorkflowStatus = "in_progress"
	StatusInvoiced   WorkflowStatus = "invoiced"
	StatusClosed     WorkflowStatus = "closed"
	StatusCancelled  WorkflowStatus = "cancelled"
)

// IsValid reports whether the value is one of the known workflow statuses.
func (s WorkflowStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusInvoiced, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks how far a deal has been paid.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid reports whether the value is one of the known payment statuses.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentOverdue, PaymentRefunded:
		return true
	}
	return false
}

// DefaultCurrency is applied to deals created without an explicit currency.
const DefaultCurrency = "KGS"

// Deal is a billable procedure/invoice record owned by a client.
// TaxAmount and AmountNet are derived fields: they are recomputed from
// AmountGross, Discount and TaxRate on every create and update and never
// accepted from the caller.
type Deal struct {
	ID            int64             `json:"id" db:"id"`
	ClientID      int64             `json:"client_id" db:"client_id"`
	Category      ProcedureCategory `json:"category" db:"category"`
	Status        WorkflowStatus    `json:"status" db:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status" db:"payment_status"`

	AmountGross float64 `json:"amount_gross" db:"amount_gross"`
	Discount    float64 `json:"discount" db:"discount"`
	TaxRate     float64 `json:"tax_rate" db:"tax_rate"`
	TaxAmount   float64 `json:"tax_amount" db:"tax_amount"`
	AmountNet   float64 `json:"amount_net" db:"amount_net"`
	Currency    string  `json:"currency" db:"currency"`

	PaidAmount    *float64 `json:"paid_amount" db:"paid_amount"`
	PaymentMethod *string  `json:"payment_method" db:"payment_method"`

	InvoiceNumber *string    `json:"invoice_number" db:"invoice_number"`
	InvoiceDate   time.Time  `json:"invoice_date" db:"invoice_date"`
	DueDate       *time.Time `json:"due_date" db:"due_date"`
	PaidDate      *time.Time `json:"paid_date" db:"paid_date"`

	Notes     *string    `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// RecalculateDerived recomputes the derived financial fields:
//
//	tax_amount = amount_gross * tax_rate
//	amount_net = amount_gross - discount + tax_amount
//
// Plain float64 arithmetic, matching the stored numeric type.
func (d *Deal) RecalculateDerived() {
	d.TaxAmount = d.AmountGross * d.TaxRate
	d.AmountNet = d.AmountGross - d.Discount + d.TaxAmount
}
