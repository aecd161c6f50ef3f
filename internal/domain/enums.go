package domain

// InvoiceStatus represents an invoice's lifecycle state.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// ValidInvoiceStatuses lists the accepted invoice status values.
var ValidInvoiceStatuses = map[InvoiceStatus]bool{
	InvoiceStatusDraft: true,
	InvoiceStatusSent:  true,
	InvoiceStatusPaid:  true,
}

// PaymentStatus is derived per invoice from its amount and the sum of its
// payments; it is never stored.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// QueryType identifies what a read-only data query should return.
type QueryType string

const (
	QueryInvoices QueryType = "invoices"
	QueryPayments QueryType = "payments"
	QueryBalance  QueryType = "balance"
	QueryStats    QueryType = "stats"
)

// ValidQueryTypes lists the accepted query_type values.
var ValidQueryTypes = map[QueryType]bool{
	QueryInvoices: true,
	QueryPayments: true,
	QueryBalance:  true,
	QueryStats:    true,
}
