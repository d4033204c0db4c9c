package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TotalPayments handles GET /api/reports/total-payments.
func (h *ResourceHandler) TotalPayments(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	total, err := h.Reports.TotalPayments(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"totalPayments": total})
}

// PendingInvoices handles GET /api/reports/pending-invoices.
func (h *ResourceHandler) PendingInvoices(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	n, err := h.Reports.PendingInvoices(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"pendingInvoices": n})
}
