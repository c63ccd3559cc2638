package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promoforge/config"
	"promoforge/models"
)

func testClient(serverURL string) *JiraClient {
	return NewJiraClient(&config.Config{
		TrackerURL:      serverURL,
		TrackerEmail:    "bot@example.com",
		TrackerAPIToken: "token",
		BrowseHost:      "https://tracker.example.com",
		RequestTimeout:  5 * time.Second,
		MaxRetries:      2,
	})
}

func TestGetContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PRMR-11901", r.URL.Path)
		assert.Equal(t, "summary,description", r.URL.Query().Get("fields"))
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "bot@example.com", user)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"fields": map[string]string{
				"summary":     "[{{ .project }}] template",
				"description": "body",
			},
		})
	}))
	defer server.Close()

	content, err := testClient(server.URL).GetContent(context.Background(), "PRMR-11901")

	require.NoError(t, err)
	assert.Equal(t, "[{{ .project }}] template", content.Summary)
	assert.Equal(t, "body", content.Description)
}

func TestGetContentRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"fields": map[string]string{"summary": "s", "description": "d"},
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetContent(context.Background(), "PRMR-1")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetContentDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetContent(context.Background(), "PRMR-404")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateTicket(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/2/issue", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "PRMR-500"})
	}))
	defer server.Close()

	key, err := testClient(server.URL).CreateTicket(context.Background(), models.FieldPayload{
		Project:     "PRMR",
		IssueType:   "Task",
		Summary:     "summary",
		Description: "description",
		DueDate:     "2025-07-25",
		Labels:      []string{"SOL"},
		AssigneeID:  "acc-9",
		Components:  []string{"Delivery"},
		ParentKey:   "PRMR-100",
		Extra:       map[string]any{"customfield_10603": "2025-07-25"},
	})

	require.NoError(t, err)
	assert.Equal(t, "PRMR-500", key)

	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"key": "PRMR"}, fields["project"])
	assert.Equal(t, map[string]any{"name": "Task"}, fields["issuetype"])
	assert.Equal(t, "2025-07-25", fields["duedate"])
	assert.Equal(t, map[string]any{"accountId": "acc-9"}, fields["assignee"])
	assert.Equal(t, map[string]any{"key": "PRMR-100"}, fields["parent"])
	assert.Equal(t, []any{map[string]any{"name": "Delivery"}}, fields["components"])
	assert.Equal(t, "2025-07-25", fields["customfield_10603"])
}

func TestCreateTicketFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateTicket(context.Background(), models.FieldPayload{
		Project: "PRMR", IssueType: "Task",
	})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "creation is never retried")
}

func TestUpdateTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/api/2/issue/PRMR-500", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := testClient(server.URL).UpdateTicket(context.Background(), "PRMR-500", models.FieldPayload{
		Project: "PRMR", IssueType: "Task", Summary: "s", Description: "final",
	})

	require.NoError(t, err)
}

func TestCreateLink(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issueLink", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := testClient(server.URL).CreateLink(context.Background(), models.LinkBlockedBy, "PRMR-1", "DSGN-2")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "is blocked by"}, body["type"])
	assert.Equal(t, map[string]any{"key": "PRMR-1"}, body["inwardIssue"])
	assert.Equal(t, map[string]any{"key": "DSGN-2"}, body["outwardIssue"])
}

func TestPermalinks(t *testing.T) {
	client := testClient("https://unused")

	assert.Equal(t, "https://tracker.example.com/browse/PRMR-7", client.BrowseURL("PRMR-7"))
	assert.Equal(t,
		"[https://tracker.example.com/browse/PRMR-7|https://tracker.example.com/browse/PRMR-7|smart-link]",
		client.SmartLink("PRMR-7"))
}

func TestCheckAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/myself", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, testClient(server.URL).CheckAuth(context.Background()))
}
