package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/model"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

type paymentReq struct {
	InvoiceID   uint64  `json:"invoiceId"`
	PaymentDate string  `json:"paymentDate"`
	AmountPaid  float64 `json:"amountPaid"`
}

func (r paymentReq) toModel() (model.Payment, error) {
	if err := requireRef("invoiceId", r.InvoiceID); err != nil {
		return model.Payment{}, err
	}
	date, err := checkDate("paymentDate", r.PaymentDate, false)
	if err != nil {
		return model.Payment{}, err
	}
	if err := requireAmount("amountPaid", r.AmountPaid); err != nil {
		return model.Payment{}, err
	}
	return model.Payment{InvoiceID: r.InvoiceID, PaymentDate: date, AmountPaid: r.AmountPaid}, nil
}

// ListPayments handles GET /api/payments.
func (h *ResourceHandler) ListPayments(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	items, err := h.Payments.ListByOwner(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreatePayment handles POST /api/payments.  The invoice must belong to the
// caller; otherwise 403 and nothing is recorded.
func (h *ResourceHandler) CreatePayment(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	var req paymentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	pm, err := req.toModel()
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.Payments.Create(ctx, pid, &pm); err != nil {
		return err
	}
	h.opts.publish(c, pid, "payment", q.ActionCreated, pm.ID)
	return c.JSON(http.StatusCreated, pm)
}
