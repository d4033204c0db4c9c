package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/model"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

type clientReq struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
}

func (r clientReq) toModel(ownerID uint64) (model.Client, error) {
	name, err := requireName("name", r.Name)
	if err != nil {
		return model.Client{}, err
	}
	if err := checkLen("contactInfo", r.ContactInfo, maxNameLen); err != nil {
		return model.Client{}, err
	}
	return model.Client{Name: name, ContactInfo: r.ContactInfo, OwnerID: ownerID}, nil
}

// ListClients handles GET /api/clients.
func (h *ResourceHandler) ListClients(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	items, err := h.Clients.ListByOwner(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetClient handles GET /api/clients/:id.
func (h *ResourceHandler) GetClient(c echo.Context) error {
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

	cl, err := h.Clients.GetByIDAndOwner(ctx, id, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// CreateClient handles POST /api/clients.  The owner is always the caller.
func (h *ResourceHandler) CreateClient(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	var req clientReq
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := req.toModel(pid)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.Clients.Create(ctx, &cl); err != nil {
		return err
	}
	h.opts.publish(c, pid, "client", q.ActionCreated, cl.ID)
	return c.JSON(http.StatusCreated, cl)
}

// UpdateClient handles PUT /api/clients/:id.
func (h *ResourceHandler) UpdateClient(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req clientReq
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := req.toModel(pid)
	if err != nil {
		return err
	}
	cl.ID = id
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.Clients.Update(ctx, &cl); err != nil {
		return err
	}
	h.opts.publish(c, pid, "client", q.ActionUpdated, id)
	return c.JSON(http.StatusOK, cl)
}

// DeleteClient handles DELETE /api/clients/:id.
func (h *ResourceHandler) DeleteClient(c echo.Context) error {
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

	if err := h.Clients.DeleteByIDAndOwner(ctx, id, pid); err != nil {
		return err
	}
	h.opts.publish(c, pid, "client", q.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
