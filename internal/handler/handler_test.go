package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/auth"
	"github.com/nileshswami544-code/freelancerpayment/internal/handler"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
	"github.com/nileshswami544-code/freelancerpayment/internal/queue"
	"github.com/nileshswami544-code/freelancerpayment/internal/router"
	"github.com/nileshswami544-code/freelancerpayment/internal/service"
)

var q = regexp.QuoteMeta

type memStore struct {
	mu     sync.Mutex
	nextID uint64
	byName map[string]model.Freelancer
}

func (m *memStore) CreateFreelancer(_ context.Context, username, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return 0, apperr.Conflict("username already taken")
	}
	m.nextID++
	m.byName[username] = model.Freelancer{ID: m.nextID, Username: username, PasswordHash: hash}
	return m.nextID, nil
}

func (m *memStore) GetFreelancerByUsername(_ context.Context, username string) (model.Freelancer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.byName[username]
	if !ok {
		return model.Freelancer{}, apperr.NotFound("freelancer")
	}
	return f, nil
}

type testEnv struct {
	e      *echo.Echo
	mock   sqlmock.Sqlmock
	svc    *auth.Service
	events *service.Recorder
}

func newEnv(t *testing.T, enforceParents bool) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	svc, err := auth.NewService(&memStore{byName: map[string]model.Freelancer{}}, "handler-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	rec := &service.Recorder{}
	opts := handler.Options{
		DBTimeout:              time.Second,
		EnforceParentOwnership: enforceParents,
		Log:                    log,
		Events:                 rec,
	}
	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(svc, opts),
		Resources: handler.NewResourceHandler(db, opts),
		Verifier:  svc,
		Log:       log,
	})
	return &testEnv{e: e, mock: mock, svc: svc, events: rec}
}

// login registers username and returns a bearer token for it.
func (env *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	_, err := env.svc.Register(ctx, username, "pw-"+username)
	require.NoError(t, err)
	tok, err := env.svc.Authenticate(ctx, username, "pw-"+username)
	require.NoError(t, err)
	return tok.Value
}

func (env *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestHealth(t *testing.T) {
	env := newEnv(t, true)
	rec := env.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSignupLoginMe(t *testing.T) {
	env := newEnv(t, true)

	rec := env.do(http.MethodPost, "/api/signup", "", `{"username":"alice","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"username":"alice"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/signup", "", `{"username":"alice","password":"pw2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken", errorOf(t, rec))

	rec = env.do(http.MethodPost, "/api/login", "", `{"username":"alice","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), login.ExpiresAt, time.Minute)

	rec = env.do(http.MethodGet, "/api/me", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"principalId":1}`, rec.Body.String())

	evs := env.events.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, "freelancer", evs[0].Resource)
}

func TestSignupValidation(t *testing.T) {
	env := newEnv(t, true)

	rec := env.do(http.MethodPost, "/api/signup", "", `{"username":" ","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/signup", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", errorOf(t, rec))
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	env := newEnv(t, true)
	env.login(t, "alice")

	wrong := env.do(http.MethodPost, "/api/login", "", `{"username":"alice","password":"nope"}`)
	unknown := env.do(http.MethodPost, "/api/login", "", `{"username":"nobody","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "invalid credentials", errorOf(t, wrong))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t, true)
	paths := []string{"/api/me", "/api/clients", "/api/projects", "/api/invoices", "/api/payments", "/api/reports/total-payments"}

	for _, p := range paths {
		rec := env.do(http.MethodGet, p, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p)
		assert.Equal(t, "missing bearer token", errorOf(t, rec))

		rec = env.do(http.MethodGet, p, "not-a-token", "")
		assert.Equal(t, http.StatusForbidden, rec.Code, p)
		assert.Equal(t, "invalid or expired token", errorOf(t, rec))
	}
	// No storage access happened: the mock has no expectations.
}

func TestClientsAreScopedToCaller(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")
	bob := env.login(t, "bob")

	env.mock.ExpectExec(q("INSERT INTO clients (name, contact_info, freelancer_id) VALUES (?, ?, ?)")).
		WithArgs("Acme", "ops@acme.test", 1).
		WillReturnResult(sqlmock.NewResult(5, 1))
	rec := env.do(http.MethodPost, "/api/clients", alice, `{"name":" Acme ","contactInfo":"ops@acme.test","ownerId":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":5,"name":"Acme","contactInfo":"ops@acme.test","ownerId":1}`, rec.Body.String())

	env.mock.ExpectQuery(q("FROM clients WHERE freelancer_id = ? ORDER BY id")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_info", "freelancer_id"}))
	rec = env.do(http.MethodGet, "/api/clients", bob, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	env.mock.ExpectQuery(q("FROM clients WHERE id = ? AND freelancer_id = ?")).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_info", "freelancer_id"}))
	rec = env.do(http.MethodGet, "/api/clients/5", bob, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "client not found", errorOf(t, rec))

	env.mock.ExpectExec(q("UPDATE clients SET name = ?, contact_info = ? WHERE id = ? AND freelancer_id = ?")).
		WithArgs("Mine", "", 5, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rec = env.do(http.MethodPut, "/api/clients/5", bob, `{"name":"Mine"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.mock.ExpectExec(q("DELETE FROM clients WHERE id = ? AND freelancer_id = ?")).
		WithArgs(5, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rec = env.do(http.MethodDelete, "/api/clients/5", bob, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	evs := env.events.Events()
	var created []queue.ActivityEvent
	for _, ev := range evs {
		if ev.Resource == "client" {
			created = append(created, ev)
		}
	}
	require.Len(t, created, 1)
	assert.Equal(t, uint64(5), created[0].ResourceID)
	assert.Equal(t, uint64(1), created[0].PrincipalID)
}

func TestClientUpdateAndDelete(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectExec(q("UPDATE clients SET")).
		WithArgs("Acme Ltd", "x", 5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec := env.do(http.MethodPut, "/api/clients/5", alice, `{"name":"Acme Ltd","contactInfo":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"name":"Acme Ltd","contactInfo":"x","ownerId":1}`, rec.Body.String())

	env.mock.ExpectExec(q("DELETE FROM clients")).
		WithArgs(5, 1).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})
	rec = env.do(http.MethodDelete, "/api/clients/5", alice, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "parent row")

	env.mock.ExpectExec(q("DELETE FROM clients")).
		WithArgs(6, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = env.do(http.MethodDelete, "/api/clients/6", alice, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBadInputNeverReachesStorage(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"client without name", http.MethodPost, "/api/clients", `{"contactInfo":"x"}`},
		{"client name too long", http.MethodPost, "/api/clients", `{"name":"` + strings.Repeat("n", 256) + `"}`},
		{"non-numeric id", http.MethodGet, "/api/clients/abc", ""},
		{"zero id", http.MethodDelete, "/api/projects/0", ""},
		{"project without client", http.MethodPost, "/api/projects", `{"projectName":"Site"}`},
		{"project bad date", http.MethodPost, "/api/projects", `{"projectName":"Site","clientId":1,"dueDate":"31/12/2024"}`},
		{"project status too long", http.MethodPost, "/api/projects", `{"projectName":"Site","clientId":1,"status":"` + strings.Repeat("s", 33) + `"}`},
		{"invoice zero amount", http.MethodPost, "/api/invoices", `{"projectId":1,"amount":0}`},
		{"invoice amount too large", http.MethodPost, "/api/invoices", `{"projectId":1,"amount":1e15}`},
		{"invoice amount below a cent", http.MethodPost, "/api/invoices", `{"projectId":1,"amount":0.001}`},
		{"invoice update three decimals", http.MethodPut, "/api/invoices/4", `{"projectId":1,"amount":10.125}`},
		{"invoice unknown status", http.MethodPost, "/api/invoices", `{"projectId":1,"amount":10,"status":"lost"}`},
		{"payment without date", http.MethodPost, "/api/payments", `{"invoiceId":1,"amountPaid":10}`},
		{"payment negative amount", http.MethodPost, "/api/payments", `{"invoiceId":1,"amountPaid":-1,"paymentDate":"2024-01-02"}`},
		{"payment three decimals", http.MethodPost, "/api/payments", `{"invoiceId":1,"amountPaid":12.345,"paymentDate":"2024-01-02"}`},
		{"payment at column limit", http.MethodPost, "/api/payments", `{"invoiceId":1,"amountPaid":10000000000,"paymentDate":"2024-01-02"}`},
		{"malformed json", http.MethodPost, "/api/invoices", `{"projectId":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, alice, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestProjectCreateChecksClientOwnership(t *testing.T) {
	env := newEnv(t, true)
	env.login(t, "alice")
	bob := env.login(t, "bob")

	env.mock.ExpectQuery(q("SELECT 1 FROM clients WHERE id = ? AND freelancer_id = ?")).
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	rec := env.do(http.MethodPost, "/api/projects", bob, `{"projectName":"Spy","clientId":5}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "client does not belong to this freelancer", errorOf(t, rec))

	env.mock.ExpectQuery(q("SELECT 1 FROM clients WHERE id = ? AND freelancer_id = ?")).
		WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	env.mock.ExpectExec(q("INSERT INTO projects (project_name, client_id, freelancer_id, status, due_date) VALUES (?, ?, ?, ?, ?)")).
		WithArgs("Site", 7, 2, "active", "2024-12-31").
		WillReturnResult(sqlmock.NewResult(11, 1))
	rec = env.do(http.MethodPost, "/api/projects", bob, `{"projectName":"Site","clientId":7,"dueDate":"2024-12-31"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t,
		`{"id":11,"projectName":"Site","clientId":7,"ownerId":2,"status":"active","dueDate":"2024-12-31"}`,
		rec.Body.String())
}

func TestProjectCreateWithoutParentEnforcement(t *testing.T) {
	env := newEnv(t, false)
	alice := env.login(t, "alice")

	env.mock.ExpectExec(q("INSERT INTO projects")).
		WithArgs("Site", 5, 1, "active", nil).
		WillReturnResult(sqlmock.NewResult(3, 1))
	rec := env.do(http.MethodPost, "/api/projects", alice, `{"projectName":"Site","clientId":5}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env.mock.ExpectExec(q("INSERT INTO projects")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	rec = env.do(http.MethodPost, "/api/projects", alice, `{"projectName":"Site","clientId":99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "referenced record does not exist", errorOf(t, rec))
}

func TestInvoiceLifecycle(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectQuery(q("SELECT 1 FROM projects WHERE id = ? AND freelancer_id = ?")).
		WithArgs(11, 1).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	env.mock.ExpectExec(q("INSERT INTO invoices (project_id, amount, due_date, status) VALUES (?, ?, ?, ?)")).
		WithArgs(11, 1500.5, "2024-07-01", "pending").
		WillReturnResult(sqlmock.NewResult(21, 1))
	rec := env.do(http.MethodPost, "/api/invoices", alice, `{"projectId":11,"amount":1500.5,"dueDate":"2024-07-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":21,"projectId":11,"amount":1500.5,"dueDate":"2024-07-01","status":"pending"}`, rec.Body.String())

	env.mock.ExpectQuery(q("SELECT 1 FROM projects")).
		WithArgs(11, 1).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	env.mock.ExpectExec(q("UPDATE invoices i JOIN projects p ON p.id = i.project_id SET")).
		WithArgs(11, 1500.5, "2024-07-01", "paid", 21, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = env.do(http.MethodPut, "/api/invoices/21", alice, `{"projectId":11,"amount":1500.5,"dueDate":"2024-07-01","status":"PAID"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)

	env.mock.ExpectExec(q("DELETE i FROM invoices i JOIN projects p")).
		WithArgs(21, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec = env.do(http.MethodDelete, "/api/invoices/21", alice, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	actions := []string{}
	for _, ev := range env.events.Events() {
		if ev.Resource == "invoice" {
			actions = append(actions, ev.Action)
		}
	}
	assert.Equal(t, []string{queue.ActionCreated, queue.ActionUpdated, queue.ActionDeleted}, actions)
}

func TestInvoiceCreateAgainstForeignProject(t *testing.T) {
	env := newEnv(t, true)
	env.login(t, "alice")
	bob := env.login(t, "bob")

	env.mock.ExpectQuery(q("SELECT 1 FROM projects")).
		WithArgs(11, 2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	rec := env.do(http.MethodPost, "/api/invoices", bob, `{"projectId":11,"amount":10}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPaymentAgainstForeignInvoiceInsertsNothing(t *testing.T) {
	env := newEnv(t, true)
	env.login(t, "alice")
	bob := env.login(t, "bob")

	env.mock.ExpectQuery(q("SELECT 1 FROM invoices i JOIN projects p ON p.id = i.project_id WHERE i.id = ? AND p.freelancer_id = ?")).
		WithArgs(21, 2).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	rec := env.do(http.MethodPost, "/api/payments", bob, `{"invoiceId":21,"paymentDate":"2024-06-01","amountPaid":100}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "invoice does not belong to this freelancer", errorOf(t, rec))

	for _, ev := range env.events.Events() {
		assert.NotEqual(t, "payment", ev.Resource)
	}
}

func TestPaymentCreateAndList(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectQuery(q("SELECT 1 FROM invoices i JOIN projects p")).
		WithArgs(21, 1).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	env.mock.ExpectExec(q("INSERT INTO payments (invoice_id, payment_date, amount_paid) VALUES (?, ?, ?)")).
		WithArgs(21, "2024-06-01", 100.0).
		WillReturnResult(sqlmock.NewResult(31, 1))
	rec := env.do(http.MethodPost, "/api/payments", alice, `{"invoiceId":21,"paymentDate":"2024-06-01","amountPaid":100}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":31,"invoiceId":21,"paymentDate":"2024-06-01","amountPaid":100}`, rec.Body.String())

	env.mock.ExpectQuery(q("WHERE p.freelancer_id = ? ORDER BY pm.id")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "payment_date", "amount_paid"}).
			AddRow(31, 21, "2024-06-01", 100.0))
	rec = env.do(http.MethodGet, "/api/payments", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":31,"invoiceId":21,"paymentDate":"2024-06-01","amountPaid":100}]`, rec.Body.String())
}

func TestReports(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectQuery(q("SELECT COALESCE(SUM(pm.amount_paid), 0)")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0.0))
	rec := env.do(http.MethodGet, "/api/reports/total-payments", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalPayments":0}`, rec.Body.String())

	env.mock.ExpectQuery(q("WHERE p.freelancer_id = ? AND i.status = ?")).
		WithArgs(1, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	rec = env.do(http.MethodGet, "/api/reports/pending-invoices", alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pendingInvoices":3}`, rec.Body.String())
}

func TestStorageFailureIsGeneric(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectQuery(q("FROM projects WHERE freelancer_id = ?")).
		WithArgs(1).
		WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	rec := env.do(http.MethodGet, "/api/projects", alice, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorOf(t, rec))
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestOutOfRangeColumnIsBadRequest(t *testing.T) {
	env := newEnv(t, true)
	alice := env.login(t, "alice")

	env.mock.ExpectQuery(q("SELECT 1 FROM projects WHERE id = ? AND freelancer_id = ?")).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	env.mock.ExpectExec(q("INSERT INTO invoices")).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'amount'"})

	rec := env.do(http.MethodPost, "/api/invoices", alice, `{"projectId":1,"amount":99.99}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "value out of range", errorOf(t, rec))
	assert.Empty(t, env.events.Events())
}

func TestUnknownRouteRendersJSONError(t *testing.T) {
	env := newEnv(t, true)
	rec := env.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
}
