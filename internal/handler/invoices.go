package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

type invoiceReq struct {
	ProjectID uint64  `json:"projectId"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"dueDate"`
	Status    string  `json:"status"`
}

func (r invoiceReq) toModel() (model.Invoice, error) {
	if err := requireRef("projectId", r.ProjectID); err != nil {
		return model.Invoice{}, err
	}
	if err := requireAmount("amount", r.Amount); err != nil {
		return model.Invoice{}, err
	}
	due, err := checkDate("dueDate", r.DueDate, true)
	if err != nil {
		return model.Invoice{}, err
	}
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if status == "" {
		status = model.InvoicePending
	}
	if !model.ValidInvoiceStatus(status) {
		return model.Invoice{}, apperr.Validation("status must be one of pending, paid, overdue, cancelled")
	}
	return model.Invoice{ProjectID: r.ProjectID, Amount: r.Amount, DueDate: due, Status: status}, nil
}

// checkProject rejects an invoice write that points at another freelancer's
// project.  Disabled when parent ownership is not enforced.
func (h *ResourceHandler) checkProject(ctx context.Context, projectID, ownerID uint64) error {
	if !h.opts.EnforceParentOwnership {
		return nil
	}
	owned, err := h.Projects.IsOwnedBy(ctx, projectID, ownerID)
	return ensureOwned(owned, err, "project does not belong to this freelancer")
}

// ListInvoices handles GET /api/invoices.
func (h *ResourceHandler) ListInvoices(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	items, err := h.Invoices.ListByOwner(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetInvoice handles GET /api/invoices/:id.
func (h *ResourceHandler) GetInvoice(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	inv, err := h.Invoices.GetByIDAndOwner(ctx, id, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inv)
}

// CreateInvoice handles POST /api/invoices.
func (h *ResourceHandler) CreateInvoice(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	var req invoiceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	inv, err := req.toModel()
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.checkProject(ctx, inv.ProjectID, pid); err != nil {
		return err
	}
	if err := h.Invoices.Create(ctx, &inv); err != nil {
		return err
	}
	h.opts.publish(c, pid, "invoice", q.ActionCreated, inv.ID)
	return c.JSON(http.StatusCreated, inv)
}

// UpdateInvoice handles PUT /api/invoices/:id.  The invoice must currently
// belong to the caller; the target project is checked like on create.
func (h *ResourceHandler) UpdateInvoice(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req invoiceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	inv, err := req.toModel()
	if err != nil {
		return err
	}
	inv.ID = id
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.checkProject(ctx, inv.ProjectID, pid); err != nil {
		return err
	}
	if err := h.Invoices.Update(ctx, pid, &inv); err != nil {
		return err
	}
	h.opts.publish(c, pid, "invoice", q.ActionUpdated, id)
	return c.JSON(http.StatusOK, inv)
}

// DeleteInvoice handles DELETE /api/invoices/:id.
func (h *ResourceHandler) DeleteInvoice(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.Invoices.DeleteByIDAndOwner(ctx, id, pid); err != nil {
		return err
	}
	h.opts.publish(c, pid, "invoice", q.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
