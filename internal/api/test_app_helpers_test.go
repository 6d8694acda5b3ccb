package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lullaby/internal/db"
	"github.com/terraincognita07/lullaby/internal/i18n"
	"github.com/terraincognita07/lullaby/internal/security"
)

var testSecretKey = []byte("lullaby-test-secret-key-0123456789abcdef")

// Tuesday noon.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	handler *Handler
	token   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "lullaby-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	i18nManager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, testSecretKey, time.UTC, i18nManager, nil)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	token, err := security.IssueDeviceToken(testSecretKey, "nursery-tablet", time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue device token: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testApp{app: app, handler: handler, token: token}
}

func (testApp *testApp) do(t *testing.T, method string, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set(fiber.HeaderAuthorization, "Bearer "+testApp.token)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	response, err := testApp.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func expectStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		payload, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(payload))
	}
}

func createTestChild(t *testing.T, testApp *testApp, name string, birthDate string) string {
	t.Helper()

	response := testApp.do(t, http.MethodPost, "/api/children", map[string]any{
		"name":       name,
		"birth_date": birthDate,
	})
	expectStatus(t, response, http.StatusCreated)

	created := struct {
		ID string `json:"id"`
	}{}
	decodeJSONBody(t, response.Body, &created)
	if created.ID == "" {
		t.Fatal("expected created child to carry an id")
	}
	return created.ID
}
