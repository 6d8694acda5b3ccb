package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/lullaby/internal/models"
)

func TestSessionCreateListDelete(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	childID := createTestChild(t, testApp, "Mila", "2025-09-01")

	response := testApp.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"child_id":   childID,
		"start_time": "2026-03-09T20:00:00Z",
		"end_time":   "2026-03-10T06:30:00Z",
		"quality":    7,
		"mood":       "calm",
	})
	expectStatus(t, response, http.StatusCreated)
	created := models.SleepSession{}
	decodeJSONBody(t, response.Body, &created)
	if created.ID == "" || created.DurationSeconds != 10*3600+30*60 {
		t.Fatalf("unexpected created session: %#v", created)
	}

	response = testApp.do(t, http.MethodGet, "/api/sessions?child_id="+childID+"&from=2026-03-10T00:00:00Z", nil)
	expectStatus(t, response, http.StatusOK)
	listed := []models.SleepSession{}
	decodeJSONBody(t, response.Body, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected created session in window, got %#v", listed)
	}

	response = testApp.do(t, http.MethodGet, "/api/sessions?child_id="+childID+"&to=2026-03-10T06:00:00Z", nil)
	expectStatus(t, response, http.StatusOK)
	decodeJSONBody(t, response.Body, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected session ending after the window to be excluded, got %#v", listed)
	}

	response = testApp.do(t, http.MethodDelete, "/api/sessions/"+created.ID, nil)
	expectStatus(t, response, http.StatusNoContent)

	response = testApp.do(t, http.MethodGet, "/api/sessions?child_id="+childID, nil)
	decodeJSONBody(t, response.Body, &listed)
	if len(listed) != 0 {
		t.Fatalf("expected no sessions after delete, got %#v", listed)
	}

	response = testApp.do(t, http.MethodDelete, "/api/sessions/"+created.ID, nil)
	expectStatus(t, response, http.StatusNoContent)
}

func TestSessionCreateValidation(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	childID := createTestChild(t, testApp, "Mila", "2025-09-01")

	tests := []struct {
		name    string
		payload map[string]any
		status  int
		message string
	}{
		{
			name:    "end before start",
			payload: map[string]any{"child_id": childID, "start_time": "2026-03-10T06:00:00Z", "end_time": "2026-03-10T05:00:00Z"},
			status:  http.StatusBadRequest,
			message: "sleep session ends before it starts",
		},
		{
			name:    "quality out of range",
			payload: map[string]any{"child_id": childID, "start_time": "2026-03-10T05:00:00Z", "end_time": "2026-03-10T06:00:00Z", "quality": 11},
			status:  http.StatusBadRequest,
			message: "quality must be at most 10",
		},
		{
			name:    "unknown mood",
			payload: map[string]any{"child_id": childID, "start_time": "2026-03-10T05:00:00Z", "end_time": "2026-03-10T06:00:00Z", "mood": "grumpy"},
			status:  http.StatusBadRequest,
			message: "mood must be one of: calm fussy crying happy sleepy",
		},
		{
			name:    "unknown child",
			payload: map[string]any{"child_id": "ghost", "start_time": "2026-03-10T05:00:00Z", "end_time": "2026-03-10T06:00:00Z"},
			status:  http.StatusNotFound,
			message: "child not found",
		},
	}

	for _, testCase := range tests {
		response := testApp.do(t, http.MethodPost, "/api/sessions", testCase.payload)
		if response.StatusCode != testCase.status {
			t.Fatalf("%s: expected status %d, got %d", testCase.name, testCase.status, response.StatusCode)
		}
		if message := readAPIError(t, response.Body); message != testCase.message {
			t.Fatalf("%s: expected %q, got %q", testCase.name, testCase.message, message)
		}
	}
}

func TestListSessionsRejectsBadTimestamps(t *testing.T) {
	t.Parallel()

	testApp := newTestApp(t)
	response := testApp.do(t, http.MethodGet, "/api/sessions?from=yesterday", nil)
	expectStatus(t, response, http.StatusBadRequest)

	response = testApp.do(t, http.MethodGet, "/api/sessions?from=2026-03-10T00:00:00Z&to=2026-03-09T00:00:00Z", nil)
	expectStatus(t, response, http.StatusBadRequest)
	if message := readAPIError(t, response.Body); message != "invalid range" {
		t.Fatalf("expected invalid range, got %q", message)
	}
}
