package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kpa-forms-backend/config"
	"kpa-forms-backend/internal/model"
	"kpa-forms-backend/internal/store"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.WheelSpecification{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 60,
	}
	return NewRouter(store.NewGormStore(db), cfg)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (bool, string, any) {
	t.Helper()

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    any    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Success, envelope.Message, envelope.Data
}

const formsPath = "/api/forms/wheel-specifications"

func TestSpecificationLifecycle(t *testing.T) {
	router := setupRouter(t)

	createBody := map[string]any{
		"formNumber":    "F-1",
		"submittedBy":   "alice",
		"submittedDate": "2024-01-01",
		"fields":        map[string]any{"wheelGauge": "1600mm"},
	}

	// Create.
	w := doJSON(t, router, http.MethodPost, formsPath, createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ok, _, data := decodeEnvelope(t, w)
	assert.True(t, ok)
	created := data.(map[string]any)
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "F-1", created["formNumber"])
	assert.Equal(t, "2024-01-01", created["submittedDate"])
	assert.Equal(t, "Saved", created["status"])
	assert.Equal(t, "1600mm", created["fields"].(map[string]any)["wheelGauge"])
	createdAt, err := time.Parse(time.RFC3339Nano, created["createdAt"].(string))
	require.NoError(t, err)

	// Duplicate create is a conflict.
	w = doJSON(t, router, http.MethodPost, formsPath, createBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ok, msg, _ := decodeEnvelope(t, w)
	assert.False(t, ok)
	assert.Contains(t, msg, "already exists")

	// Get one.
	w = doJSON(t, router, http.MethodGet, formsPath+"/F-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, _, data = decodeEnvelope(t, w)
	got := data.(map[string]any)
	assert.Equal(t, "F-1", got["formNumber"])
	assert.Equal(t, "alice", got["submittedBy"])

	// Update.
	time.Sleep(20 * time.Millisecond)
	updateBody := map[string]any{
		"formNumber":    "F-1",
		"submittedBy":   "bob",
		"submittedDate": "2024-01-01",
		"fields":        map[string]any{"wheelGauge": "1600mm"},
	}
	w = doJSON(t, router, http.MethodPut, formsPath+"/F-1", updateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ok, _, data = decodeEnvelope(t, w)
	assert.True(t, ok)
	updated := data.(map[string]any)
	assert.Equal(t, "bob", updated["submittedBy"])
	assert.EqualValues(t, 1, updated["id"])
	updatedAt, err := time.Parse(time.RFC3339Nano, updated["updatedAt"].(string))
	require.NoError(t, err)
	assert.True(t, updatedAt.After(createdAt))

	// Delete.
	w = doJSON(t, router, http.MethodDelete, formsPath+"/F-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ok, _, data = decodeEnvelope(t, w)
	assert.True(t, ok)
	assert.Nil(t, data)

	// Gone.
	w = doJSON(t, router, http.MethodGet, formsPath+"/F-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidationFailures(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing form number",
			body: map[string]any{"submittedBy": "alice", "submittedDate": "2024-01-01"},
		},
		{
			name: "whitespace submitted by",
			body: map[string]any{"formNumber": "F-9", "submittedBy": "   ", "submittedDate": "2024-01-01"},
		},
		{
			name: "bad date",
			body: map[string]any{"formNumber": "F-9", "submittedBy": "alice", "submittedDate": "yesterday"},
		},
		{
			name: "non-string measurement",
			body: map[string]any{
				"formNumber": "F-9", "submittedBy": "alice", "submittedDate": "2024-01-01",
				"fields": map[string]any{"wheelGauge": 1600},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, formsPath, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			ok, msg, _ := decodeEnvelope(t, w)
			assert.False(t, ok)
			assert.NotEmpty(t, msg)
		})
	}

	// Nothing was persisted by the rejected requests.
	w := doJSON(t, router, http.MethodGet, formsPath+"/F-9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListQueryValidation(t *testing.T) {
	router := setupRouter(t)

	for _, query := range []string{
		"limit=0",
		"limit=1001",
		"limit=abc",
		"offset=-1",
		"submittedDate=01-01-2024",
	} {
		t.Run(query, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, formsPath+"?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			ok, _, _ := decodeEnvelope(t, w)
			assert.False(t, ok)
		})
	}

	// Bounds themselves are accepted.
	for _, query := range []string{"limit=1", "limit=1000", "offset=0"} {
		t.Run(query, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, formsPath+"?"+query, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestFieldsAlwaysAMapping(t *testing.T) {
	router := setupRouter(t)

	// No fields key at all in the request body.
	w := doJSON(t, router, http.MethodPost, formsPath, map[string]any{
		"formNumber":    "F-2",
		"submittedBy":   "alice",
		"submittedDate": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, _, data := decodeEnvelope(t, w)
	fields, isMap := data.(map[string]any)["fields"].(map[string]any)
	assert.True(t, isMap)
	assert.Empty(t, fields)

	// Unknown keys round-trip untouched.
	w = doJSON(t, router, http.MethodPost, formsPath, map[string]any{
		"formNumber":    "F-3",
		"submittedBy":   "alice",
		"submittedDate": "2024-01-01",
		"fields":        map[string]any{"customInspection": "passed", "wheelGauge": "1600mm"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, formsPath+"/F-3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, _, data = decodeEnvelope(t, w)
	fields = data.(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "passed", fields["customInspection"])
	assert.Equal(t, "1600mm", fields["wheelGauge"])
}

func TestUpdateRenameConflict(t *testing.T) {
	router := setupRouter(t)

	for _, fn := range []string{"F-1", "F-2"} {
		w := doJSON(t, router, http.MethodPost, formsPath, map[string]any{
			"formNumber":    fn,
			"submittedBy":   "alice",
			"submittedDate": "2024-01-01",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodPut, formsPath+"/F-1", map[string]any{
		"formNumber":    "F-2",
		"submittedBy":   "alice",
		"submittedDate": "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	ok, msg, _ := decodeEnvelope(t, w)
	assert.False(t, ok)
	assert.Contains(t, msg, "already exists")
}

func TestUpdateNotFound(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPut, formsPath+"/missing", map[string]any{
		"formNumber":    "missing",
		"submittedBy":   "alice",
		"submittedDate": "2024-01-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The failed update must not have created anything.
	w = doJSON(t, router, http.MethodGet, formsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, _, data := decodeEnvelope(t, w)
	assert.EqualValues(t, 0, data.(map[string]any)["total"])
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	ok, msg, _ := decodeEnvelope(t, w)
	assert.True(t, ok)
	assert.Contains(t, msg, "running")
}
