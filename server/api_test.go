package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteStoreErrorMapping(t *testing.T) {
	a := newAPI(nil, discardLogger())
	for _, tc := range []struct {
		err  error
		want int
	}{
		{ErrNotFound, 404},
		{ErrConflict, 409},
		{ErrExpired, 410},
		{ErrValidation, 400},
		{fmt.Errorf("boom"), 500},
	} {
		rec := httptest.NewRecorder()
		a.writeStoreError(rec, "op", tc.err)
		assert.Equal(t, tc.want, rec.Code, "err %v", tc.err)
	}
}

func TestRateLimiter(t *testing.T) {
	a := newAPI(nil, discardLogger())
	for i := 0; i < 5; i++ {
		require.True(t, a.allow("1.2.3.4", "auth", 5, time.Minute))
	}
	require.False(t, a.allow("1.2.3.4", "auth", 5, time.Minute))
	// other clients have their own bucket
	require.True(t, a.allow("5.6.7.8", "auth", 5, time.Minute))
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","bogus":1}`))
	err := readJSON(httptest.NewRecorder(), r, &dst)
	require.Error(t, err)
}

// testServer stands up the full HTTP surface over a real store.
func testServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	s := testStore(t)
	mux := http.NewServeMux()
	newAPI(s, discardLogger()).routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestBoardFlowOverHTTP(t *testing.T) {
	srv, client := testServer(t)

	resp, _ := doJSON(t, client, "POST", srv.URL+"/api/auth/signup", map[string]any{
		"email": "u1@example.com", "username": "u1", "password": "hunter22",
	})
	require.Equal(t, 201, resp.StatusCode)

	// acting user resolves from the session cookie now
	resp, body := doJSON(t, client, "POST", srv.URL+"/api/boards", map[string]any{"title": "B1"})
	require.Equal(t, 201, resp.StatusCode)
	boardID := int64(body["id"].(float64))

	resp, _ = doJSON(t, client, "POST", srv.URL+fmt.Sprintf("/api/boards/%d/lists", boardID), map[string]any{"title": "Todo", "position": 0})
	require.Equal(t, 201, resp.StatusCode)
	resp, _ = doJSON(t, client, "POST", srv.URL+fmt.Sprintf("/api/boards/%d/lists", boardID), map[string]any{"title": "Doing", "position": 1})
	require.Equal(t, 201, resp.StatusCode)

	req, err := http.NewRequest("GET", srv.URL+fmt.Sprintf("/api/boards/%d/lists", boardID), nil)
	require.NoError(t, err)
	listResp, err := client.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, 200, listResp.StatusCode)
	var lists []List
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&lists))
	require.Len(t, lists, 2)
	assert.Equal(t, "Todo", lists[0].Title)
	assert.Equal(t, "Doing", lists[1].Title)

	// board detail embeds the owner membership
	resp, body = doJSON(t, client, "GET", srv.URL+fmt.Sprintf("/api/boards/%d", boardID), nil)
	require.Equal(t, 200, resp.StatusCode)
	members := body["members"].([]any)
	require.Len(t, members, 1)
	assert.Equal(t, "owner", members[0].(map[string]any)["role"])

	// unknown board maps to 404, bad payload to 400
	resp, _ = doJSON(t, client, "GET", srv.URL+"/api/boards/99999", nil)
	assert.Equal(t, 404, resp.StatusCode)
	resp, _ = doJSON(t, client, "POST", srv.URL+"/api/boards", map[string]any{"title": ""})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t)
	// no session cookie
	resp, err := http.Post(srv.URL+"/api/boards", "application/json", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 401, resp.StatusCode)
}

func TestSignupDuplicateOverHTTP(t *testing.T) {
	srv, client := testServer(t)
	payload := map[string]any{"email": "dup@example.com", "username": "dup", "password": "hunter22"}
	resp, _ := doJSON(t, client, "POST", srv.URL+"/api/auth/signup", payload)
	require.Equal(t, 201, resp.StatusCode)
	resp, _ = doJSON(t, client, "POST", srv.URL+"/api/auth/signup", payload)
	require.Equal(t, 409, resp.StatusCode)
}
