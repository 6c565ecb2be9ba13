package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"
	"rentflow-backend/internal/repository"
	"rentflow-backend/internal/rollover"
	"rentflow-backend/internal/service"
	"rentflow-backend/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type testAPI struct {
	router   chi.Router
	tenants  *memstore.Tenants
	rents    *memstore.Rents
	expenses *memstore.Expenses
	objects  *memstore.Objects
	settings *settings.Store
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	api := testAPI{
		router:   chi.NewRouter(),
		tenants:  &memstore.Tenants{},
		rents:    &memstore.Rents{},
		expenses: &memstore.Expenses{},
		objects:  &memstore.Objects{},
		settings: settings.NewStore(memstore.NewSettings(nil), memstore.NewOverlay(""), nil),
	}
	require.NoError(t, api.settings.Load(context.Background()))

	files := service.FileManager{Store: api.objects}
	TenantHandler{Service: service.TenantService{
		Tenants:   api.tenants,
		Files:     files,
		Listeners: []service.TenantListener{service.RentSync{Rents: api.rents}},
	}}.RegisterRoutes(api.router)
	RentHandler{
		Service:  service.RentService{Rents: api.rents, Tenants: api.tenants},
		Settings: api.settings,
	}.RegisterRoutes(api.router)
	ExpenseHandler{
		Service:  service.ExpenseService{Expenses: api.expenses},
		Settings: api.settings,
	}.RegisterRoutes(api.router)
	SettingsHandler{Store: api.settings}.RegisterRoutes(api.router)
	RolloverHandler{Engine: rollover.NewEngine(api.tenants, api.rents, api.expenses, nil)}.RegisterRoutes(api.router)
	return api
}

func (api testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (api testAPI) seedTenant(t *testing.T, name string, joined time.Time) domain.Tenant {
	t.Helper()
	tenant, err := api.tenants.Create(context.Background(), domain.Tenant{
		Name:     name,
		Property: "Unit " + name,
		Rent:     decimal.NewFromInt(900),
		JoinDate: joined,
		Status:   domain.TenantActive,
	})
	require.NoError(t, err)
	return *tenant
}

func TestTenantCreateJSON(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/tenants", map[string]any{
		"name":     "Alice",
		"property": "Unit 1",
		"rent":     "1000",
		"joinDate": "2024-01-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got domain.Tenant
	env := decodeEnvelope(t, rec, &got)
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, domain.TenantActive, got.Status)
	assert.True(t, got.Rent.Equal(decimal.NewFromInt(1000)))
}

func TestTenantCreateMultipart(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("data", `{"name":"Bob","property":"Unit 2","rent":"800","joinDate":"2024-02-01"}`))
	part, err := mw.CreateFormFile("documents", "lease.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 lease"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/tenants", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got domain.Tenant
	decodeEnvelope(t, rec, &got)
	require.Len(t, got.Documents, 1)
	assert.True(t, strings.HasPrefix(got.Documents[0], "mem://tenant-documents/"))
	assert.Equal(t, 1, api.objects.Len())
}

func TestTenantCreateValidationIs422(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/tenants", map[string]any{"rent": "-1", "joinDate": "yesterday"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "joinDate")

	rec = api.do(t, http.MethodPost, "/tenants", map[string]any{"rent": "-1", "joinDate": "2024-01-01"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env = decodeEnvelope(t, rec, nil)
	assert.Equal(t, "is required", env.Error.Fields["name"])
	assert.Equal(t, "must not be negative", env.Error.Fields["rent"])
}

func TestTenantDeleteAndUndo(t *testing.T) {
	api := newTestAPI(t)
	a := api.seedTenant(t, "A", time.Now())
	b := api.seedTenant(t, "B", time.Now())
	ids := map[string]any{"ids": []uuid.UUID{a.ID, b.ID}}

	rec := api.do(t, http.MethodPost, "/tenants/delete", ids)
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]int
	decodeEnvelope(t, rec, &res)
	assert.Equal(t, 2, res["deleted"])

	rec = api.do(t, http.MethodGet, "/tenants/"+a.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPost, "/tenants/undo", ids)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodGet, "/tenants", nil)
	var list []domain.Tenant
	decodeEnvelope(t, rec, &list)
	assert.Len(t, list, 2)

	rec = api.do(t, http.MethodPost, "/tenants/delete", map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTenantGetBadID(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/tenants/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentCreateConflictIs409(t *testing.T) {
	api := newTestAPI(t)
	tenant := api.seedTenant(t, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	body := map[string]any{"tenantId": tenant.ID, "year": 2024, "month": 3}

	rec := api.do(t, http.MethodPost, "/rent", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = api.do(t, http.MethodPost, "/rent", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRentUndoIntoRebilledPeriodIs409(t *testing.T) {
	api := newTestAPI(t)
	tenant := api.seedTenant(t, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	body := map[string]any{"tenantId": tenant.ID, "year": 2024, "month": 5}

	rec := api.do(t, http.MethodPost, "/rent", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first domain.RentEntry
	decodeEnvelope(t, rec, &first)

	ids := map[string]any{"ids": []uuid.UUID{first.ID}}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, "/rent/delete", ids).Code)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/rent", body).Code)

	rec = api.do(t, http.MethodPost, "/rent/undo", ids)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRentListFilterValidation(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/rent?month=13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRentExportCSV(t *testing.T) {
	api := newTestAPI(t)
	tenant := api.seedTenant(t, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := api.do(t, http.MethodPost, "/rent", map[string]any{"tenantId": tenant.ID, "year": 2024, "month": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/rent/export?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `rent_2024_03.csv`)

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Tenant", records[0][0])
	assert.Equal(t, []string{"A", "Unit A", "2024", "3", "900", "2024-03-01", "Pending", "", ""}, records[1])
}

func TestRentExportXLSX(t *testing.T) {
	api := newTestAPI(t)
	tenant := api.seedTenant(t, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	api.do(t, http.MethodPost, "/rent", map[string]any{"tenantId": tenant.ID, "year": 2024, "month": 3})

	rec := api.do(t, http.MethodGet, "/rent/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Rent", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	rec = api.do(t, http.MethodGet, "/rent/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRentPayDefaultsPaymentDate(t *testing.T) {
	api := newTestAPI(t)
	tenant := api.seedTenant(t, "A", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := api.do(t, http.MethodPost, "/rent", map[string]any{"tenantId": tenant.ID, "year": 2024, "month": 3})
	var entry domain.RentEntry
	decodeEnvelope(t, rec, &entry)

	rec = api.do(t, http.MethodPost, "/rent/"+entry.ID.String()+"/pay", map[string]any{"paymentDate": "2024-03-04", "collectedBy": "Sam"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeEnvelope(t, rec, &entry)
	assert.Equal(t, domain.RentPaid, entry.Status)
	assert.Equal(t, "Sam", entry.CollectedBy)
	require.NotNil(t, entry.PaymentDate)
	assert.Equal(t, "2024-03-04", formatDate(*entry.PaymentDate))
}

func TestSettingsCommitAndGet(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/settings/houseName", "Green Villa")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Settings settings.Settings `json:"settings"`
		ThemeHSL map[string]string `json:"themeHsl"`
	}
	decodeEnvelope(t, rec, &res)
	assert.Equal(t, "Green Villa", res.Settings.HouseName)
	assert.NotEmpty(t, res.ThemeHSL)

	rec = api.do(t, http.MethodPut, "/settings/nope", "x")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRolloverRentForPeriod(t *testing.T) {
	api := newTestAPI(t)
	api.seedTenant(t, "A", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	api.seedTenant(t, "B", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))

	rec := api.do(t, http.MethodPost, "/rollover/rent", map[string]int{"year": 2024, "month": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res map[string]int
	decodeEnvelope(t, rec, &res)
	assert.Equal(t, 1, res["rentCreated"])

	rec = api.do(t, http.MethodPost, "/rollover/rent", map[string]int{"year": 2024, "month": 3})
	decodeEnvelope(t, rec, &res)
	assert.Equal(t, 0, res["rentCreated"])

	rec = api.do(t, http.MethodPost, "/rollover", map[string]int{"year": 2024, "month": 14})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWriteServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.Invalid("name", "is required"), http.StatusUnprocessableEntity},
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}
