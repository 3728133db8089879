// internal/server/server_test.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"activities-service/internal/common/config"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/observability"
	"activities-service/internal/registry"
	"activities-service/pkg/catalog"
)

// ==========================
// Test Helper Functions
// ==========================

type activityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg, err := registry.NewFromCatalog(catalog.Default())
	require.NoError(t, err)

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(staticDir, "index.html"), []byte("<html>activities</html>"), 0o644))

	srv := New(Options{
		Config: config.ServerConfig{
			Host:      "127.0.0.1",
			Port:      0,
			StaticDir: staticDir,
		},
		Registry: reg,
		Logger:   logger.NewTestLogger(t),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getActivities(t *testing.T, ts *httptest.Server) map[string]activityView {
	t.Helper()
	resp, err := http.Get(ts.URL + "/activities")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]activityView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func do(t *testing.T, method, url string) (int, map[string]string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ==========================
// Listing
// ==========================

func TestGetActivities(t *testing.T) {
	ts := newTestServer(t)

	data := getActivities(t, ts)
	require.Contains(t, data, "Chess Club")
	require.Contains(t, data, "Programming Class")
	require.Contains(t, data, "Gym Class")

	chess := data["Chess Club"]
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess.Description)
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess.Schedule)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Len(t, chess.Participants, 2)
	assert.Contains(t, chess.Participants, "michael@mergington.edu")
	assert.Contains(t, chess.Participants, "daniel@mergington.edu")
	assert.Contains(t, data["Programming Class"].Participants, "emma@mergington.edu")
}

// ==========================
// Signup flows
// ==========================

func TestSignup_Success(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost,
		ts.URL+"/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "Signed up")

	data := getActivities(t, ts)
	assert.Contains(t, data["Chess Club"].Participants, "newstudent@mergington.edu")
}

func TestSignup_NonexistentActivity(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost,
		ts.URL+"/activities/NonExistent%20Activity/signup?email=student@mergington.edu")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["detail"], "Activity not found")
}

func TestSignup_DuplicateRegistration(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodPost,
		ts.URL+"/activities/Chess%20Club/signup?email=michael@mergington.edu")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "already signed up")
}

func TestSignup_MultipleStudents(t *testing.T) {
	ts := newTestServer(t)

	for _, email := range []string{"alice@mergington.edu", "bob@mergington.edu"} {
		status, _ := do(t, http.MethodPost,
			fmt.Sprintf("%s/activities/Programming%%20Class/signup?email=%s", ts.URL, email))
		assert.Equal(t, http.StatusOK, status)
	}

	participants := getActivities(t, ts)["Programming Class"].Participants
	assert.Contains(t, participants, "alice@mergington.edu")
	assert.Contains(t, participants, "bob@mergington.edu")
}

// ==========================
// Unregister flows
// ==========================

func TestUnregister_Success(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodDelete,
		ts.URL+"/activities/Chess%20Club/unregister?email=michael@mergington.edu")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "Unregistered")

	data := getActivities(t, ts)
	assert.NotContains(t, data["Chess Club"].Participants, "michael@mergington.edu")
}

func TestUnregister_NonexistentActivity(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodDelete,
		ts.URL+"/activities/NonExistent%20Activity/unregister?email=student@mergington.edu")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["detail"], "Activity not found")
}

func TestUnregister_NotRegisteredStudent(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodDelete,
		ts.URL+"/activities/Chess%20Club/unregister?email=notregistered@mergington.edu")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "not registered")
}

func TestUnregister_OneOfMany(t *testing.T) {
	ts := newTestServer(t)

	require.Len(t, getActivities(t, ts)["Chess Club"].Participants, 2)

	status, _ := do(t, http.MethodDelete,
		ts.URL+"/activities/Chess%20Club/unregister?email=michael@mergington.edu")
	require.Equal(t, http.StatusOK, status)

	remaining := getActivities(t, ts)["Chess Club"].Participants
	assert.Len(t, remaining, 1)
	assert.Contains(t, remaining, "daniel@mergington.edu")
}

// ==========================
// Complete workflows
// ==========================

func TestOpaqueIdentifierRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	status, _ := do(t, http.MethodPost,
		ts.URL+"/activities/Gym%20Class/signup?email=student-id-4021")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, getActivities(t, ts)["Gym Class"].Participants, "student-id-4021")

	status, _ = do(t, http.MethodDelete,
		ts.URL+"/activities/Gym%20Class/unregister?email=student-id-4021")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, getActivities(t, ts)["Gym Class"].Participants, "student-id-4021")
}

func TestSignupThenUnregister(t *testing.T) {
	ts := newTestServer(t)

	status, _ := do(t, http.MethodPost,
		ts.URL+"/activities/Gym%20Class/signup?email=testuser@mergington.edu")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, getActivities(t, ts)["Gym Class"].Participants, "testuser@mergington.edu")

	status, _ = do(t, http.MethodDelete,
		ts.URL+"/activities/Gym%20Class/unregister?email=testuser@mergington.edu")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, getActivities(t, ts)["Gym Class"].Participants, "testuser@mergington.edu")
}

func TestMultipleActivitiesSignup(t *testing.T) {
	ts := newTestServer(t)
	email := "multiactivity@mergington.edu"

	for _, activity := range []string{"Chess%20Club", "Programming%20Class"} {
		status, _ := do(t, http.MethodPost,
			fmt.Sprintf("%s/activities/%s/signup?email=%s", ts.URL, activity, email))
		require.Equal(t, http.StatusOK, status)
	}

	data := getActivities(t, ts)
	assert.Contains(t, data["Chess Club"].Participants, email)
	assert.Contains(t, data["Programming Class"].Participants, email)
}

// ==========================
// Operational surface
// ==========================

func TestOperationalEndpoints(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = do(t, http.MethodGet, ts.URL+"/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPprofEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRequestSpanRecorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reg, err := registry.NewFromCatalog(catalog.Default())
	require.NoError(t, err)

	srv := New(Options{
		Config:   config.ServerConfig{},
		Registry: reg,
		Tracing:  observability.NewTracingFromProvider("activities-service-test", provider),
		Logger:   logger.NewTestLogger(t),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/activities")
	require.NoError(t, err)
	resp.Body.Close()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "list-activities", spans[0].Name())
}

func TestRootRedirectsToStaticIndex(t *testing.T) {
	ts := newTestServer(t)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/static/index.html", resp.Header.Get("Location"))
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/activities")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/activities", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "caller-supplied")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "caller-supplied", resp.Header.Get("X-Request-ID"))
}
