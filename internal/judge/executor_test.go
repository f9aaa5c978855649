package judge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus_club_backend/internal/config"
	"campus_club_backend/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pistonConfig(url string) config.ExecutorConfig {
	return config.ExecutorConfig{
		URL:                url,
		Language:           "javascript",
		Version:            "18.15.0",
		CompileTimeoutMs:   10000,
		RunTimeoutMs:       3000,
		CompileMemoryLimit: -1,
		RunMemoryLimit:     -1,
		HTTPTimeoutSeconds: 5,
	}
}

func TestPistonClient_Execute(t *testing.T) {
	var got judge.ExecuteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"language":"javascript","version":"18.15.0","run":{"code":0,"signal":null,"stdout":"ok\n","stderr":"","output":"ok\n"}}`))
	}))
	defer srv.Close()

	client := judge.NewPistonClient(pistonConfig(srv.URL))
	resp, err := client.Execute(context.Background(), client.NewRequest("solution.js", "console.log('ok')"))
	require.NoError(t, err)

	assert.True(t, resp.Run.Succeeded())
	assert.Equal(t, "ok\n", resp.Run.Stdout)

	assert.Equal(t, "javascript", got.Language)
	assert.Equal(t, "18.15.0", got.Version)
	assert.Equal(t, "", got.Stdin)
	assert.Empty(t, got.Args)
	assert.Equal(t, 10000, got.CompileTimeout)
	assert.Equal(t, 3000, got.RunTimeout)
	assert.Equal(t, int64(-1), got.RunMemoryLimit)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "solution.js", got.Files[0].Name)
}

func TestPistonClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Requests limited to 5 per second"}`))
	}))
	defer srv.Close()

	client := judge.NewPistonClient(pistonConfig(srv.URL))
	_, err := client.Execute(context.Background(), client.NewRequest("solution.js", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPistonGrader_EndToEndAgainstFakeService(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"run":{"code":0,"stdout":"{\"success\":true,\"result\":[1,2],\"expected\":[1,2]}\n","stderr":""}}`))
			return
		}
		w.Write([]byte(`{"run":{"code":1,"stdout":"","stderr":"ReferenceError: x is not defined"}}`))
	}))
	defer srv.Close()

	g := judge.NewPistonGrader(judge.NewPistonClient(pistonConfig(srv.URL)))
	result, err := g.Grade(context.Background(), challengeWith(100, tc(`[[2,1]]`, `[1,2]`), tc(`[[]]`, `[]`)), "function add(a) { return a.sort() }")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, "ReferenceError: x is not defined", result.Details[1].Error)
}
