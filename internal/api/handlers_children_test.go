package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terraincognita07/lullaby/internal/models"
)

func TestAPIRejectsMissingOrInvalidToken(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
	}

	for _, testCase := range tests {
		request := httptest.NewRequest(http.MethodGet, "/api/children", nil)
		if testCase.header != "" {
			request.Header.Set("Authorization", testCase.header)
		}
		response, err := testApp.app.Test(request, -1)
		if err != nil {
			t.Fatalf("%s: request failed: %v", testCase.name, err)
		}
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", testCase.name, response.StatusCode)
		}
		if message := readAPIError(t, response.Body); message != "unauthorized" {
			t.Fatalf("%s: expected unauthorized error, got %q", testCase.name, message)
		}
		_ = response.Body.Close()
	}
}

func TestAPIThrottlesRepeatedBadTokens(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	for attempt := 0; attempt < authFailureLimit; attempt++ {
		request := httptest.NewRequest(http.MethodGet, "/api/children", nil)
		request.Header.Set("Authorization", "Bearer bad")
		response, err := testApp.app.Test(request, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		_ = response.Body.Close()
	}

	response := testApp.do(t, http.MethodGet, "/api/children", nil)
	expectStatus(t, response, http.StatusTooManyRequests)
}

func TestHealthIsPublic(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	response, err := testApp.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer response.Body.Close()
	expectStatus(t, response, http.StatusOK)
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	response := testApp.do(t, http.MethodGet, "/api/nope", nil)
	expectStatus(t, response, http.StatusNotFound)
	if message := readAPIError(t, response.Body); message != "not found" {
		t.Fatalf("expected not found error, got %q", message)
	}
}

func TestChildLifecycle(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	childID := createTestChild(t, testApp, "  Mila  ", "2025-09-01")

	response := testApp.do(t, http.MethodGet, "/api/children/"+childID, nil)
	expectStatus(t, response, http.StatusOK)
	child := models.ChildProfile{}
	decodeJSONBody(t, response.Body, &child)
	if child.Name != "Mila" {
		t.Fatalf("expected trimmed name, got %q", child.Name)
	}
	if child.SleepGoalHours != models.DefaultSleepGoalHours {
		t.Fatalf("expected default sleep goal, got %v", child.SleepGoalHours)
	}

	response = testApp.do(t, http.MethodGet, "/api/active-child", nil)
	expectStatus(t, response, http.StatusOK)
	active := activeChildResponse{}
	decodeJSONBody(t, response.Body, &active)
	if active.Child == nil || active.Child.ID != childID {
		t.Fatalf("expected first child to become active, got %#v", active.Child)
	}

	response = testApp.do(t, http.MethodPatch, "/api/children/"+childID, map[string]any{
		"notes":            "naps in the stroller",
		"sleep_goal_hours": 13.5,
	})
	expectStatus(t, response, http.StatusOK)
	decodeJSONBody(t, response.Body, &child)
	if child.Name != "Mila" || child.Notes != "naps in the stroller" || child.SleepGoalHours != 13.5 {
		t.Fatalf("unexpected patched child: %#v", child)
	}

	response = testApp.do(t, http.MethodDelete, "/api/children/"+childID, nil)
	expectStatus(t, response, http.StatusNoContent)

	response = testApp.do(t, http.MethodGet, "/api/children/"+childID, nil)
	expectStatus(t, response, http.StatusNotFound)

	response = testApp.do(t, http.MethodGet, "/api/active-child", nil)
	expectStatus(t, response, http.StatusOK)
	active = activeChildResponse{}
	decodeJSONBody(t, response.Body, &active)
	if active.Child != nil {
		t.Fatalf("expected no active child after deleting the only child, got %#v", active.Child)
	}
}

func TestCreateChildValidation(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{name: "missing name", payload: map[string]any{"birth_date": "2025-09-01"}, message: "name is required"},
		{name: "bad birth date", payload: map[string]any{"name": "Mila", "birth_date": "01/09/2025"}, message: errInvalidBirthDate.Error()},
		{name: "future birth date", payload: map[string]any{"name": "Mila", "birth_date": "2999-01-01"}, message: "birth date is in the future"},
		{name: "goal too large", payload: map[string]any{"name": "Mila", "birth_date": "2025-09-01", "sleep_goal_hours": 30}, message: "sleep_goal_hours must be at most 24"},
	}

	for _, testCase := range tests {
		response := testApp.do(t, http.MethodPost, "/api/children", testCase.payload)
		expectStatus(t, response, http.StatusBadRequest)
		if message := readAPIError(t, response.Body); message != testCase.message {
			t.Fatalf("%s: expected %q, got %q", testCase.name, testCase.message, message)
		}
	}
}

func TestActiveChildSwitching(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	first := createTestChild(t, testApp, "Mila", "2025-09-01")
	second := createTestChild(t, testApp, "Leo", "2024-01-15")

	response := testApp.do(t, http.MethodPut, "/api/active-child/"+second, nil)
	expectStatus(t, response, http.StatusOK)
	active := activeChildResponse{}
	decodeJSONBody(t, response.Body, &active)
	if active.Child == nil || active.Child.ID != second {
		t.Fatalf("expected %s active, got %#v", second, active.Child)
	}

	response = testApp.do(t, http.MethodPut, "/api/active-child/missing", nil)
	expectStatus(t, response, http.StatusNotFound)

	response = testApp.do(t, http.MethodDelete, "/api/children/"+second, nil)
	expectStatus(t, response, http.StatusNoContent)

	response = testApp.do(t, http.MethodGet, "/api/active-child", nil)
	active = activeChildResponse{}
	decodeJSONBody(t, response.Body, &active)
	if active.Child == nil || active.Child.ID != first {
		t.Fatalf("expected active child to move to %s, got %#v", first, active.Child)
	}

	response = testApp.do(t, http.MethodDelete, "/api/active-child", nil)
	expectStatus(t, response, http.StatusNoContent)
	response = testApp.do(t, http.MethodGet, "/api/active-child", nil)
	active = activeChildResponse{}
	decodeJSONBody(t, response.Body, &active)
	if active.Child != nil {
		t.Fatalf("expected cleared active child, got %#v", active.Child)
	}
}
