package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdeck.org/internal/auth"
	"taskdeck.org/internal/task"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	t.Setenv("TASKDECK_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)

	authSvc := auth.NewService(auth.NewInMemoryUsers())
	taskSvc := task.NewService(task.NewInMemory())
	api := New(ReadyProbe{}, "test", authSvc, taskSvc)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, token string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) register(username, password string) string {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("unexpected register status: %d", resp.StatusCode)
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.t.Fatalf("decode token: %v", err)
	}
	if payload.Token == "" {
		c.t.Fatal("expected token in register response")
	}
	return payload.Token
}

func (c *apiClient) createTask(token, title, date string) int64 {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/tasks", map[string]any{
		"title": title,
		"date":  date,
	}, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("unexpected create status: %d", resp.StatusCode)
	}
	var payload createTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.t.Fatalf("decode create response: %v", err)
	}
	if payload.ID <= 0 {
		c.t.Fatalf("expected numeric task id, got %d", payload.ID)
	}
	return payload.ID
}

func (c *apiClient) listTasks(token string) []task.Task {
	c.t.Helper()
	resp := c.do(http.MethodGet, "/api/tasks", nil, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("unexpected list status: %d", resp.StatusCode)
	}
	var tasks []task.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		c.t.Fatalf("decode tasks: %v", err)
	}
	return tasks
}

func TestTaskLifecycle(t *testing.T) {
	c := newTestAPI(t)

	token := c.register("alice", "pw1")
	id := c.createTask(token, "Buy milk", "2024-01-01")

	tasks := c.listTasks(token)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].ID != id || tasks[0].Title != "Buy milk" || tasks[0].Completed {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}

	resp := c.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), map[string]any{
		"title":       "Buy milk",
		"description": "2 liters",
		"date":        "2024-01-02",
		"completed":   true,
	}, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected update status: %d", resp.StatusCode)
	}

	tasks = c.listTasks(token)
	if !tasks[0].Completed || tasks[0].Date != "2024-01-02" || tasks[0].Description != "2 liters" {
		t.Fatalf("update not applied: %+v", tasks[0])
	}

	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected delete status: %d", resp.StatusCode)
	}

	// Deleting again reports not found.
	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", resp.StatusCode)
	}
}

func TestOwnershipBoundary(t *testing.T) {
	c := newTestAPI(t)

	aliceToken := c.register("alice", "pw1")
	aliceTask := c.createTask(aliceToken, "alice's task", "2024-01-01")

	bobToken := c.register("bob", "pw2")

	// Bob's listing never includes alice's task.
	if tasks := c.listTasks(bobToken); len(tasks) != 0 {
		t.Fatalf("expected empty listing for bob, got %+v", tasks)
	}

	resp := c.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", aliceTask), map[string]any{
		"title": "hijacked",
	}, bobToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign update, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", aliceTask), nil, bobToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", resp.StatusCode)
	}

	// Alice's task survives untouched.
	tasks := c.listTasks(aliceToken)
	if len(tasks) != 1 || tasks[0].Title != "alice's task" {
		t.Fatalf("alice's task mutated: %+v", tasks)
	}
}

func TestRegisterValidation(t *testing.T) {
	c := newTestAPI(t)

	resp := c.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "alice"}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodPost, "/api/auth/register", map[string]string{"password": "pw"}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing username, got %d", resp.StatusCode)
	}

	c.register("alice", "pw1")
	resp = c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "pw2",
	}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for duplicate username, got %d", resp.StatusCode)
	}
}

func TestLoginFailures(t *testing.T) {
	c := newTestAPI(t)
	c.register("alice", "pw1")

	resp := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "pw1",
	}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.StatusCode)
	}
}

func TestLoginIssuesWorkingToken(t *testing.T) {
	c := newTestAPI(t)
	c.register("alice", "pw1")

	resp := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "pw1",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}
	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	resp.Body.Close()

	if tasks := c.listTasks(payload.Token); len(tasks) != 0 {
		t.Fatalf("expected empty listing, got %+v", tasks)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	c := newTestAPI(t)
	token := c.register("alice", "pw1")

	resp := c.do(http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
		"date":        "2024-01-01",
	}, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	c := newTestAPI(t)

	for _, tc := range []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
	} {
		req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/tasks", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestMalformedTaskIDIsNotFound(t *testing.T) {
	c := newTestAPI(t)
	token := c.register("alice", "pw1")

	for _, path := range []string{"/api/tasks/abc", "/api/tasks/-1", "/api/tasks/0", "/api/tasks/1/extra"} {
		resp := c.do(http.MethodDelete, path, nil, token)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestOperationalEndpointsArePublic(t *testing.T) {
	c := newTestAPI(t)

	for _, path := range []string{"/healthz", "/readyz", "/v1/info", "/metrics"} {
		resp := c.do(http.MethodGet, path, nil, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestMethodNotAllowedOnCollections(t *testing.T) {
	c := newTestAPI(t)
	token := c.register("alice", "pw1")

	resp := c.do(http.MethodDelete, "/api/tasks", nil, token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}

	resp = c.do(http.MethodGet, "/api/auth/login", nil, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
