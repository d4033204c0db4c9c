package model

// Payment records money received against an invoice.  Ownership is
// transitive through Invoice -> Project.
type Payment struct {
	ID          uint64  `json:"id"`          // payments.id
	InvoiceID   uint64  `json:"invoiceId"`   // payments.invoice_id
	PaymentDate string  `json:"paymentDate"` // payments.payment_date as YYYY-MM-DD
	AmountPaid  float64 `json:"amountPaid"`  // payments.amount_paid
}
