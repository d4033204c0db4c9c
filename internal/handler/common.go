package handler

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/middleware"
	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
	"github.com/nileshswami544-code/freelancerpayment/internal/repository"
	"github.com/nileshswami544-code/freelancerpayment/internal/service"
)

const (
	maxNameLen   = 255
	maxStatusLen = 32
	dateLayout   = "2006-01-02"
	publishWait  = 2 * time.Second
	maxAmount    = 1e10
)

// Options are the knobs shared by all resource handlers.
type Options struct {
	DBTimeout              time.Duration
	EnforceParentOwnership bool
	Log                    *zap.SugaredLogger
	Events                 service.ActivityPublisher
}

// ResourceHandler serves the ownership-scoped CRUD and report endpoints.
type ResourceHandler struct {
	Clients  *repository.ClientRepo
	Projects *repository.ProjectRepo
	Invoices *repository.InvoiceRepo
	Payments *repository.PaymentRepo
	Reports  *repository.ReportRepo

	opts Options
}

// NewResourceHandler wires every repository against db.
func NewResourceHandler(db *sql.DB, opts Options) *ResourceHandler {
	if db == nil {
		panic("nil database passed to NewResourceHandler")
	}
	opts = opts.withDefaults()
	return &ResourceHandler{
		Clients:  repository.NewClientRepo(db),
		Projects: repository.NewProjectRepo(db),
		Invoices: repository.NewInvoiceRepo(db),
		Payments: repository.NewPaymentRepo(db),
		Reports:  repository.NewReportRepo(db),
		opts:     opts,
	}
}

func (o Options) withDefaults() Options {
	if o.DBTimeout <= 0 {
		o.DBTimeout = 5 * time.Second
	}
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
	if o.Events == nil {
		o.Events = service.NopPublisher{}
	}
	return o
}

// dbContext bounds storage calls of one request.
func (o Options) dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), o.DBTimeout)
}

// publish emits an activity event.  It never fails the request.
func (o Options) publish(c echo.Context, principalID uint64, resource, action string, id uint64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishWait)
	defer cancel()
	ev := q.NewActivityEvent(principalID, resource, action, id)
	if err := o.Events.Publish(ctx, ev); err != nil {
		o.Log.Warnw("activity publish failed", "resource", resource, "action", action, "id", id, "error", err)
	}
}

// principal returns the id JWTAuth stored on c.
func principal(c echo.Context) (uint64, error) {
	id, ok := middleware.PrincipalID(c)
	if !ok {
		return 0, apperr.Auth(apperr.ReasonMissing)
	}
	return id, nil
}

// parseID reads the :id path parameter as a positive integer.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

func requireName(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation(field + " is required")
	}
	if err := checkLen(field, v, maxNameLen); err != nil {
		return "", err
	}
	return v, nil
}

func checkLen(field, v string, max int) error {
	if utf8.RuneCountInString(v) > max {
		return apperr.Validation(field + " too long")
	}
	return nil
}

func requireRef(field string, id uint64) error {
	if id == 0 {
		return apperr.Validation(field + " is required")
	}
	return nil
}

// requireAmount accepts what a DECIMAL(12,2) column stores exactly: a
// positive value below maxAmount with at most two decimal places.
func requireAmount(field string, v float64) error {
	if !(v > 0) {
		return apperr.Validation(field + " must be greater than 0")
	}
	if v >= maxAmount {
		return apperr.Validation(field + " is too large")
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 2 {
		return apperr.Validation(field + " must have at most 2 decimal places")
	}
	return nil
}

// checkDate accepts "" when optional, otherwise a YYYY-MM-DD calendar date.
func checkDate(field, v string, optional bool) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if optional {
			return "", nil
		}
		return "", apperr.Validation(field + " is required")
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return "", apperr.Validation(field + " must be YYYY-MM-DD")
	}
	return v, nil
}

// ensureOwned turns a negative ownership check into a Forbidden error.
func ensureOwned(owned bool, err error, msg string) error {
	if err != nil {
		return err
	}
	if !owned {
		return apperr.Forbidden(msg)
	}
	return nil
}
