package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/study-schedule-backend/config"
	"github.com/vnkhanh/study-schedule-backend/controllers"
	"github.com/vnkhanh/study-schedule-backend/routes"
	"github.com/vnkhanh/study-schedule-backend/services"
	"github.com/vnkhanh/study-schedule-backend/utils"
)

const testPasscode = "2468"

type stubGenerator struct {
	response string
	err      error
	apiKeys  []string
}

func (s *stubGenerator) GenerateText(_ context.Context, apiKey, _ string) (string, error) {
	s.apiKeys = append(s.apiKeys, apiKey)
	return s.response, s.err
}

type testServer struct {
	router *gin.Engine
	deps   *controllers.Deps
	gen    *stubGenerator
}

func newTestServer(t *testing.T, passcode string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	verifier, err := utils.NewPasscodeVerifier(passcode, "")
	require.NoError(t, err)

	gen := &stubGenerator{}
	deps := &controllers.Deps{
		DB:        db,
		Stores:    services.NewStores(db, loc),
		Extractor: services.NewExtractor(gen, time.Second),
		Navigator: services.NewNavigator(),
		Passcode:  verifier,
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Location:  loc,
		Now: func() time.Time {
			return time.Date(2025, 6, 11, 9, 0, 0, 0, loc)
		},
	}
	return &testServer{router: routes.SetupRouter(gin.New(), deps), deps: deps, gen: gen}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) unlock(t *testing.T) map[string]string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/unlock", gin.H{"passcode": testPasscode}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPing(t *testing.T) {
	s := newTestServer(t, testPasscode)
	w := s.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, testPasscode)
	w := s.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["storage"])
}

func TestUnlockSettings(t *testing.T) {
	s := newTestServer(t, testPasscode)

	w := s.do(t, http.MethodPost, "/api/auth/unlock", gin.H{"passcode": "31134"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid passcode. Please try again.", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/auth/unlock", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	headers := s.unlock(t)
	assert.Contains(t, headers["Authorization"], "Bearer ")
}

func TestUnlockWithoutConfiguredPasscode(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodPost, "/api/auth/unlock", gin.H{"passcode": "31134"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnlockIsRateLimited(t *testing.T) {
	s := newTestServer(t, testPasscode)

	var last int
	for i := 0; i < 6; i++ {
		last = s.do(t, http.MethodPost, "/api/auth/unlock", gin.H{"passcode": "0000"}, nil).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestSettingsRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, testPasscode)

	w := s.do(t, http.MethodPost, "/api/subjects", gin.H{"name": "Math"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/extractions", gin.H{"text": "exam Monday"}, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// đọc thì không cần token
	w = s.do(t, http.MethodGet, "/api/subjects", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateSubjectAndMaterial(t *testing.T) {
	s := newTestServer(t, testPasscode)
	auth := s.unlock(t)

	w := s.do(t, http.MethodPost, "/api/subjects", gin.H{"name": "Physics"}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subject := decode(t, w)["subject"].(map[string]interface{})
	assert.Equal(t, "#3B82F6", subject["color"])
	subjectID := subject["id"].(string)

	w = s.do(t, http.MethodPost, "/api/subjects", gin.H{"name": "Art", "color": "blue"}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/materials", gin.H{"title": "Lab report"}, auth)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please select a date", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/materials", gin.H{
		"title": "Lab report", "subjectId": subjectID, "date": "2025-06-13",
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/materials?date=2025-06-13", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = s.do(t, http.MethodGet, "/api/materials?date=2025-06-14", nil, nil)
	assert.EqualValues(t, 0, decode(t, w)["count"])

	w = s.do(t, http.MethodGet, "/api/dashboard?subject="+subjectID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "2025-06-11", body["today"])
	days := body["data"].(map[string]interface{})["days"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "2025-06-13", days[0].(map[string]interface{})["date"])
	assert.Equal(t, "#3B82F6", days[0].(map[string]interface{})["color"])
}

func TestExtractionConfirmAndCascadeDelete(t *testing.T) {
	s := newTestServer(t, testPasscode)
	auth := s.unlock(t)

	w := s.do(t, http.MethodPost, "/api/subjects", gin.H{"name": "Physics", "color": "#ef4444"}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	subjectID := decode(t, w)["subject"].(map[string]interface{})["id"].(string)

	s.gen.response = `Here are the materials:
[{"title":"Physics lab report","description":"Pendulum","subjectId":"physics","date":"2024-06-13"}]`

	headers := map[string]string{
		"Authorization":          auth["Authorization"],
		controllers.APIKeyHeader: "user-key",
	}
	w = s.do(t, http.MethodPost, "/api/extractions", gin.H{"text": "Physics lab report due next Friday"}, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"user-key"}, s.gen.apiKeys)

	var resp struct {
		Message       string                   `json:"message"`
		ReferenceDate string                   `json:"referenceDate"`
		Drafts        []services.MaterialDraft `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-11", resp.ReferenceDate)
	assert.Contains(t, resp.Message, "generated 1 material(s)")
	require.Len(t, resp.Drafts, 1)
	draft := resp.Drafts[0]
	require.NotNil(t, draft.SubjectID)
	assert.Equal(t, subjectID, *draft.SubjectID)
	assert.Equal(t, "2025-06-13", draft.Date)

	// xác nhận draft
	w = s.do(t, http.MethodPost, "/api/materials", gin.H{
		"title": draft.Title, "description": draft.Description, "subjectId": draft.SubjectID, "date": draft.Date,
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/materials", nil, nil)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = s.do(t, http.MethodDelete, "/api/subjects/"+subjectID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/materials", nil, nil)
	assert.EqualValues(t, 0, decode(t, w)["count"])

	w = s.do(t, http.MethodDelete, "/api/subjects/"+subjectID, nil, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractionErrors(t *testing.T) {
	s := newTestServer(t, testPasscode)
	auth := s.unlock(t)

	s.gen.err = &services.UpstreamError{Status: http.StatusForbidden, Message: "API key not valid"}
	w := s.do(t, http.MethodPost, "/api/extractions", gin.H{"text": "exam on Monday"}, auth)
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, http.StatusForbidden, body["upstreamStatus"])
	assert.Contains(t, body["message"], "Sorry, I encountered an error")

	s.gen.err = nil
	s.gen.response = "I could not find anything."
	w = s.do(t, http.MethodPost, "/api/extractions", gin.H{"text": "hello"}, auth)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "could not parse materials from response", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/extractions", gin.H{"text": "   "}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestViewTransitions(t *testing.T) {
	s := newTestServer(t, testPasscode)

	w := s.do(t, http.MethodGet, "/api/view", nil, nil)
	assert.JSONEq(t, `{"view":{"state":"dashboard"}}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/view/open_date", gin.H{"date": "2025-06-13"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "materials_for_date", body["view"].(map[string]interface{})["state"])
	assert.Empty(t, body["materials"])

	w = s.do(t, http.MethodPost, "/api/view/open_settings", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/view/back", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/view/open_settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/view/unlock", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// unlock qua passcode chuyển luôn sang settings_unlocked
	s.unlock(t)
	assert.Equal(t, services.ViewSettingsUnlocked, s.deps.Navigator.Current().State)

	w = s.do(t, http.MethodPost, "/api/view/fly", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadWithoutStorage(t *testing.T) {
	s := newTestServer(t, testPasscode)
	auth := s.unlock(t)

	w := s.do(t, http.MethodPost, "/api/uploads", nil, auth)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportMaterials(t *testing.T) {
	s := newTestServer(t, testPasscode)

	w := s.do(t, http.MethodGet, "/api/materials/export", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "materials.xlsx")
	assert.NotZero(t, w.Body.Len())
}
