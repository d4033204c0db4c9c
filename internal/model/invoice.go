package model

// Invoice statuses.  Only InvoicePending counts towards the pending report.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Invoice has no owner column; it belongs to whoever owns its project.
type Invoice struct {
	ID        uint64  `json:"id"`        // invoices.id
	ProjectID uint64  `json:"projectId"` // invoices.project_id
	Amount    float64 `json:"amount"`    // invoices.amount
	DueDate   string  `json:"dueDate"`   // invoices.due_date as YYYY-MM-DD
	Status    string  `json:"status"`    // invoices.status
}

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}
