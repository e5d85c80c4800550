package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniformledger/internal/config"
	"uniformledger/internal/domain/models"
	"uniformledger/internal/repository/memory"
	"uniformledger/internal/server/handlers"
	"uniformledger/internal/server/router"
	authsvc "uniformledger/internal/service/auth"
	dashboardsvc "uniformledger/internal/service/dashboard"
	exportsvc "uniformledger/internal/service/export"
	recordssvc "uniformledger/internal/service/records"
)

type testAPI struct {
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.New()
	authService, err := authsvc.NewService(store, config.AuthConfig{
		Secret:        "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@local",
		AdminPassword: "letmein",
	}, nil)
	require.NoError(t, err)

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, nil),
		Records:   handlers.NewRecordsHandler(recordssvc.NewService(store, nil, nil), nil),
		Dashboard: handlers.NewDashboardHandler(dashboardsvc.NewService(store, nil), nil),
		Export:    handlers.NewExportHandler(exportsvc.NewService(store, t.TempDir(), nil), nil),
	}, authService, nil)

	api := &testAPI{engine: engine}

	resp := api.do(t, http.MethodPost, "/api/login", map[string]any{
		"email":    "admin@local",
		"password": "letmein",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))
	api.token = login.Token
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	recorder := httptest.NewRecorder()
	a.engine.ServeHTTP(recorder, req)
	return recorder
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	resp := api.do(t, http.MethodGet, "/api/production", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRecordLifecycleAndSummary(t *testing.T) {
	api := newTestAPI(t)
	today := time.Now().UTC().Format(models.DateLayout)

	resp := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": today, "batchNumber": "B-1", "itemCode": "UNI-M",
		"quantity": 10, "productionCost": 5.0,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created models.ProductionRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	resp = api.do(t, http.MethodPost, "/api/sales", map[string]any{
		"date": today, "time": "10:00", "itemCode": "UNI-M",
		"quantity": 4, "sellingPrice": 12.0,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.do(t, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var summary models.DashboardSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 6, summary.Stock["UNI-M"].InStock)
	assert.InDelta(t, -4.0, summary.ROI, 1e-9)

	resp = api.do(t, http.MethodDelete, "/api/production/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.do(t, http.MethodDelete, "/api/production/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateProductionRejectsInvalidRecord(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": "2024-03-01", "itemCode": "UNI-M", "quantity": -4,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTimeSeriesRejectsUnknownGranularity(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/dashboard/timeseries?granularity=hourly", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExportWithNoRecordsConflicts(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/export/sales", nil)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestExportProductionCSVAttachment(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": "2024-03-01", "itemCode": "UNI-M", "quantity": 2, "productionCost": 3.5,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.do(t, http.MethodGet, "/api/export/production", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Body.String(), "id,date,batchNumber,itemCode,quantity,productionCost,notes")
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/production", map[string]any{
		"date": "2024-03-01", "itemCode": "UNI-M", "quantity": 2, "productionCost": 3.5,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	backup := api.do(t, http.MethodPost, "/api/backup", nil)
	require.Equal(t, http.StatusOK, backup.Code)

	var archive models.BackupArchive
	require.NoError(t, json.Unmarshal(backup.Body.Bytes(), &archive))
	require.Len(t, archive.Production, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/restore", bytes.NewReader(backup.Body.Bytes()))
	req.Header.Set("Authorization", "Bearer "+api.token)
	recorder := httptest.NewRecorder()
	api.engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	resp = api.do(t, http.MethodGet, "/api/production", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listed []models.ProductionRecord
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, archive.Production[0], listed[0], "restore must reproduce records field-for-field, id included")
}

func TestProfileUpdateMismatchIsRejected(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPut, "/api/profile", map[string]any{
		"fullName": "Operator", "email": "admin@local",
		"password": "new", "confirmPassword": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "passwords do not match")
}

func TestHealthzIsPublic(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	resp := api.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}
