package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/FleXiZ-IWNL/antiSnoreBack/internal"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/auth"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/config"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/device"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/response"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/session"
	"github.com/FleXiZ-IWNL/antiSnoreBack/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type stubDetector struct {
	detected   bool
	confidence float64
}

func (s stubDetector) Predict([]byte) (bool, float64) { return s.detected, s.confidence }

type testEnv struct {
	router     *gin.Engine
	app        *Server
	deviceHits *int
}

// newTestEnv builds a full server over in-memory sqlite and a mock
// device endpoint. deviceOK controls whether the device answers 2xx.
func newTestEnv(t *testing.T, det stubDetector, deviceOK bool) *testEnv {
	t.Helper()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if !deviceOK {
			http.Error(w, "pump jammed", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "complete"})
	}))
	t.Cleanup(srv.Close)

	store, err := storage.NewSQLiteStore(":memory:", internal.NopLogger{})
	assert.NoError(t, err)

	app := &Server{
		Log: internal.NopLogger{},
		Cfg: &config.Config{
			Env:         "development",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Repos:    &storage.Repositories{Users: store, SnoreLogs: store, PumpLogs: store},
		Dev:      device.NewClient(srv.URL, "key", internal.NopLogger{}),
		Det:      det,
		Registry: session.NewRegistry(),
		Tokens:   auth.NewJWTManager("test-secret", time.Hour),
	}
	return &testEnv{router: BuildRouter(app), app: app, deviceHits: &hits}
}

func (e *testEnv) do(method, path, token, contentType, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	rec := e.do("POST", "/auth/register", "", "application/json", `{"email":"a@x.com","password":"secret1"}`)
	assert.Equal(t, 201, rec.Code)

	rec = e.do("POST", "/auth/login", "", "application/json", `{"email":"a@x.com","password":"secret1"}`)
	assert.Equal(t, 200, rec.Code)

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	token := env.registerAndLogin(t)

	rec := env.do("GET", "/auth/me", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")

	// Duplicate registration is rejected.
	rec = env.do("POST", "/auth/register", "", "application/json", `{"email":"a@x.com","password":"secret1"}`)
	assert.Equal(t, 400, rec.Code)

	// Bad credentials get a generic 401.
	rec = env.do("POST", "/auth/login", "", "application/json", `{"email":"a@x.com","password":"nope99"}`)
	assert.Equal(t, 401, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	for _, path := range []string{"/snore/logs", "/pump/logs", "/auto-detect/status", "/pillow/levels"} {
		rec := env.do("GET", path, "", "", "")
		assert.Equal(t, 401, rec.Code, path)
	}
	rec := env.do("GET", "/snore/logs", "not-a-jwt", "", "")
	assert.Equal(t, 401, rec.Code)

	// Same error envelope as every other handler.
	var body response.APIResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Error)
	assert.Equal(t, 401, body.Error.Code)
	assert.Equal(t, "Unauthorized", body.Error.Message)
}

func TestDetect_RejectsNonAudioWithoutLogging(t *testing.T) {
	env := newTestEnv(t, stubDetector{true, 0.9}, true)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/snore/detect", token, "application/json", `{"not":"audio"}`)
	assert.Equal(t, 400, rec.Code)

	rec = env.do("GET", "/snore/logs", token, "", "")
	assert.Equal(t, 200, rec.Code)
	var body struct {
		Data []internal.SnoreLog `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
}

func TestDetect_HighConfidenceWritesLogsAndTriggersPump(t *testing.T) {
	env := newTestEnv(t, stubDetector{true, 0.9}, true)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/snore/detect", token, "audio/wav", strings.Repeat("x", 88200))
	assert.Equal(t, 200, rec.Code)

	var body struct {
		Data struct {
			SnoreDetected bool    `json:"snore_detected"`
			Confidence    float64 `json:"confidence"`
			PumpTriggered bool    `json:"pump_triggered"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.SnoreDetected)
	assert.InDelta(t, 0.9, body.Data.Confidence, 0.001)
	assert.True(t, body.Data.PumpTriggered)

	rec = env.do("GET", "/snore/logs", token, "", "")
	var snore struct {
		Data []internal.SnoreLog `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snore))
	assert.Len(t, snore.Data, 1)

	rec = env.do("GET", "/pump/logs", token, "", "")
	var pump struct {
		Data []internal.PumpLog `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pump))
	assert.Len(t, pump.Data, 1)
	assert.Equal(t, internal.PumpStatusSuccess, pump.Data[0].Status)
}

func TestDetect_PumpFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t, stubDetector{true, 0.9}, false)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/snore/detect", token, "audio/wav", "xxxx")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pump_triggered":false`)
	assert.Contains(t, rec.Body.String(), "pump_error")

	rec = env.do("GET", "/pump/logs", token, "", "")
	var pump struct {
		Data []internal.PumpLog `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pump))
	assert.Len(t, pump.Data, 1)
	assert.Equal(t, internal.PumpStatusFailed, pump.Data[0].Status)
}

func TestPumpTrigger_ValidationAndFailure(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, false)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/pump/trigger", token, "application/json", `{}`)
	assert.Equal(t, 400, rec.Code)

	rec = env.do("POST", "/pump/trigger", token, "application/json", `{"duration":3}`)
	assert.Equal(t, 500, rec.Code)

	rec = env.do("GET", "/pump/logs", token, "", "")
	var pump struct {
		Data []internal.PumpLog `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pump))
	assert.Len(t, pump.Data, 1)
	assert.Equal(t, internal.PumpStatusFailed, pump.Data[0].Status)
	assert.NotNil(t, pump.Data[0].ErrorMessage)
}

func TestPillowLevel_ValidationHappensBeforeDeviceCall(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/pillow/level", token, "application/json", `{"level":7}`)
	assert.Equal(t, 400, rec.Code)
	assert.Zero(t, *env.deviceHits)

	rec = env.do("POST", "/pillow/level", token, "application/json", `{"level":0}`)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, 1, *env.deviceHits)

	rec = env.do("GET", "/pillow/levels", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Medium")
}

func TestAutoDetectLifecycle(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	token := env.registerAndLogin(t)

	rec := env.do("GET", "/auto-detect/status", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_running":false`)
	assert.Contains(t, rec.Body.String(), `"delay_minutes":5`)

	rec = env.do("POST", "/auto-detect/start?delay_minutes=10", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_running":true`)
	assert.Contains(t, rec.Body.String(), `"delay_minutes":10`)

	rec = env.do("POST", "/auto-detect/stop", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_running":false`)
}

func TestSimulateDetection(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	token := env.registerAndLogin(t)

	rec := env.do("POST", "/auto-detect/simulate-detection", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pump_triggered":true`)

	rec = env.do("GET", "/snore/stats", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_detections":1`)
	assert.Contains(t, rec.Body.String(), `"snoring_percentage":100`)
}

func TestSnoreStats_EmptyIsZeros(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)
	token := env.registerAndLogin(t)

	rec := env.do("GET", "/snore/stats", token, "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"average_confidence":0`)
	assert.Contains(t, rec.Body.String(), `"snoring_percentage":0`)
}

func TestHealthAndRoot(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)

	rec := env.do("GET", "/health", "", "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = env.do("GET", "/", "", "", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Anti-Snoring Pillow API")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, stubDetector{}, true)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	env.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
