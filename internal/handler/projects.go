package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nileshswami544-code/freelancerpayment/internal/model"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

const defaultProjectStatus = "active"

type projectReq struct {
	ProjectName string `json:"projectName"`
	ClientID    uint64 `json:"clientId"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

func (r projectReq) toModel(ownerID uint64) (model.Project, error) {
	name, err := requireName("projectName", r.ProjectName)
	if err != nil {
		return model.Project{}, err
	}
	if err := requireRef("clientId", r.ClientID); err != nil {
		return model.Project{}, err
	}
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = defaultProjectStatus
	}
	if err := checkLen("status", status, maxStatusLen); err != nil {
		return model.Project{}, err
	}
	due, err := checkDate("dueDate", r.DueDate, true)
	if err != nil {
		return model.Project{}, err
	}
	return model.Project{
		ProjectName: name,
		ClientID:    r.ClientID,
		OwnerID:     ownerID,
		Status:      status,
		DueDate:     due,
	}, nil
}

// checkClient rejects a project write that points at another freelancer's
// client.  Disabled when parent ownership is not enforced.
func (h *ResourceHandler) checkClient(ctx context.Context, clientID, ownerID uint64) error {
	if !h.opts.EnforceParentOwnership {
		return nil
	}
	owned, err := h.Clients.IsOwnedBy(ctx, clientID, ownerID)
	return ensureOwned(owned, err, "client does not belong to this freelancer")
}

// ListProjects handles GET /api/projects.
func (h *ResourceHandler) ListProjects(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	items, err := h.Projects.ListByOwner(ctx, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetProject handles GET /api/projects/:id.
func (h *ResourceHandler) GetProject(c echo.Context) error {
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

	p, err := h.Projects.GetByIDAndOwner(ctx, id, pid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProject handles POST /api/projects.
func (h *ResourceHandler) CreateProject(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	var req projectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.toModel(pid)
	if err != nil {
		return err
	}
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.checkClient(ctx, p.ClientID, pid); err != nil {
		return err
	}
	if err := h.Projects.Create(ctx, &p); err != nil {
		return err
	}
	h.opts.publish(c, pid, "project", q.ActionCreated, p.ID)
	return c.JSON(http.StatusCreated, p)
}

// UpdateProject handles PUT /api/projects/:id.
func (h *ResourceHandler) UpdateProject(c echo.Context) error {
	pid, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req projectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.toModel(pid)
	if err != nil {
		return err
	}
	p.ID = id
	ctx, cancel := h.opts.dbContext(c)
	defer cancel()

	if err := h.checkClient(ctx, p.ClientID, pid); err != nil {
		return err
	}
	if err := h.Projects.Update(ctx, &p); err != nil {
		return err
	}
	h.opts.publish(c, pid, "project", q.ActionUpdated, id)
	return c.JSON(http.StatusOK, p)
}

// DeleteProject handles DELETE /api/projects/:id.
func (h *ResourceHandler) DeleteProject(c echo.Context) error {
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

	if err := h.Projects.DeleteByIDAndOwner(ctx, id, pid); err != nil {
		return err
	}
	h.opts.publish(c, pid, "project", q.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
