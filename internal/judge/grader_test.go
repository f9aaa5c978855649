package judge_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type scriptedResponse struct {
	resp *judge.ExecuteResponse
	err  error
}

// scriptedExecutor 按调用顺序返回预设结果，并记录收到的请求
type scriptedExecutor struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []judge.ExecuteRequest
}

func (e *scriptedExecutor) Execute(_ context.Context, req judge.ExecuteRequest) (*judge.ExecuteResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := len(e.requests)
	e.requests = append(e.requests, req)
	if i >= len(e.responses) {
		return nil, errors.New("unexpected call")
	}
	return e.responses[i].resp, e.responses[i].err
}

type staticBuilder struct{}

func (staticBuilder) NewRequest(filename, source string) judge.ExecuteRequest {
	return judge.ExecuteRequest{
		Language: "javascript",
		Version:  "18.15.0",
		Files:    []judge.File{{Name: filename, Content: source}},
		Args:     []string{},
	}
}

func exitCode(code int) *int { return &code }

func stdout(s string) scriptedResponse {
	return scriptedResponse{resp: &judge.ExecuteResponse{Run: judge.RunResult{Code: exitCode(0), Stdout: s}}}
}

func challengeWith(points int, cases ...model.TestCase) *model.Challenge {
	return &model.Challenge{
		UUIDBase:     model.UUIDBase{ID: "c-1"},
		Title:        "Add",
		FunctionName: "add",
		Points:       points,
		TimeLimit:    30,
		TestCases:    datatypes.NewJSONType(cases),
	}
}

func tc(input, expected string) model.TestCase {
	return model.TestCase{Input: json.RawMessage(input), Expected: json.RawMessage(expected)}
}

func TestGrade_MixedOutcomes(t *testing.T) {
	exec := &scriptedExecutor{responses: []scriptedResponse{
		stdout(`{"success":true,"result":3,"expected":3}` + "\n"),
		stdout(`{"success":true,"result":4,"expected":5}`),
		{resp: &judge.ExecuteResponse{Run: judge.RunResult{Code: exitCode(1), Stderr: "SyntaxError: Unexpected token"}}},
		stdout(`{"success":false,"error":"add is not defined"}`),
		stdout(`not json at all`),
		{err: errors.New("dial tcp: connection refused")},
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	c := challengeWith(60,
		tc(`{"a":1,"b":2}`, `3`),
		tc(`[2,2]`, `5`),
		tc(`[0,0]`, `0`),
		tc(`[1,1]`, `2`),
		tc(`[3,3]`, `6`),
		tc(`[4,4]`, `8`),
	)

	result, err := g.Grade(context.Background(), c, "function add(a, b) { return a + b }")
	require.NoError(t, err)

	require.Len(t, result.Details, 6)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 5, result.Failed)
	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 10, result.Score)

	assert.True(t, result.Details[0].Passed)
	assert.JSONEq(t, `3`, string(result.Details[0].Actual))

	assert.False(t, result.Details[1].Passed)
	assert.JSONEq(t, `4`, string(result.Details[1].Actual))
	assert.Empty(t, result.Details[1].Error)

	assert.Equal(t, "SyntaxError: Unexpected token", result.Details[2].Error)
	assert.Equal(t, "add is not defined", result.Details[3].Error)
	assert.Equal(t, judge.ErrMsgParseOutput, result.Details[4].Error)
	assert.Contains(t, result.Details[5].Error, "connection refused")

	for i, d := range result.Details {
		assert.Equal(t, i, d.TestCase)
	}
	assert.Len(t, exec.requests, 6)
}

func TestGrade_ResultCompletenessWhenEverythingFails(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		cases := make([]model.TestCase, n)
		responses := make([]scriptedResponse, n)
		for i := range cases {
			cases[i] = tc(`[1]`, `1`)
			responses[i] = scriptedResponse{err: errors.New("timeout")}
		}
		g := judge.NewGrader(&scriptedExecutor{responses: responses}, staticBuilder{})

		result, err := g.Grade(context.Background(), challengeWith(100, cases...), "x")
		require.NoError(t, err)
		assert.Len(t, result.Details, n)
		assert.Equal(t, n, result.Passed+result.Failed)
		assert.Equal(t, 0, result.Score)
	}
}

func TestGrade_TwoOfThree(t *testing.T) {
	exec := &scriptedExecutor{responses: []scriptedResponse{
		stdout(`{"success":true,"result":1,"expected":1}`),
		stdout(`{"success":true,"result":2,"expected":2}`),
		stdout(`{"success":true,"result":0,"expected":3}`),
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	result, err := g.Grade(context.Background(), challengeWith(100, tc(`[1]`, `1`), tc(`[2]`, `2`), tc(`[3]`, `3`)), "x")
	require.NoError(t, err)
	assert.Equal(t, 67, result.Score)
}

func TestGrade_KilledProcessWithoutStderr(t *testing.T) {
	signal := "SIGKILL"
	exec := &scriptedExecutor{responses: []scriptedResponse{
		{resp: &judge.ExecuteResponse{Run: judge.RunResult{Code: nil, Signal: &signal}}},
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	result, err := g.Grade(context.Background(), challengeWith(10, tc(`[1]`, `1`)), "while(true){}")
	require.NoError(t, err)
	assert.False(t, result.Details[0].Passed)
	assert.Equal(t, "process killed by SIGKILL", result.Details[0].Error)
}

func TestGrade_ObjectKeyOrderMatters(t *testing.T) {
	exec := &scriptedExecutor{responses: []scriptedResponse{
		stdout(`{"success":true,"result":{"b":2,"a":1},"expected":{"a":1,"b":2}}`),
		stdout(`{"success":true,"result":{"a":1,"b":2},"expected":{"a":1,"b":2}}`),
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	result, err := g.Grade(context.Background(), challengeWith(2, tc(`[1]`, `{"a":1,"b":2}`), tc(`[1]`, `{"a":1,"b":2}`)), "x")
	require.NoError(t, err)
	assert.False(t, result.Details[0].Passed)
	assert.True(t, result.Details[1].Passed)
	assert.Equal(t, 1, result.Score)
}

func TestGrade_UndefinedResultNeverMatches(t *testing.T) {
	exec := &scriptedExecutor{responses: []scriptedResponse{
		stdout(`{"success":true,"expected":null}`),
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	result, err := g.Grade(context.Background(), challengeWith(5, tc(`[]`, `null`)), "function add() {}")
	require.NoError(t, err)
	assert.False(t, result.Details[0].Passed)
}

func TestGrade_RejectsIncompleteChallengeWithoutExecuting(t *testing.T) {
	exec := &scriptedExecutor{}
	g := judge.NewGrader(exec, staticBuilder{})

	_, err := g.Grade(context.Background(), challengeWith(10), "x")
	assert.ErrorIs(t, err, judge.ErrNoTestCases)

	c := challengeWith(10, tc(`[1]`, `1`))
	c.FunctionName = " "
	_, err = g.Grade(context.Background(), c, "x")
	assert.ErrorIs(t, err, judge.ErrNoFunctionName)

	assert.Empty(t, exec.requests)
}

func TestGrade_SendsWrapperForEachCase(t *testing.T) {
	exec := &scriptedExecutor{responses: []scriptedResponse{
		stdout(`{"success":true,"result":3,"expected":3}`),
	}}
	g := judge.NewGrader(exec, staticBuilder{})

	_, err := g.Grade(context.Background(), challengeWith(1, tc(`{"x":1,"y":2}`, `3`)), "function add(x, y) { return x + y }")
	require.NoError(t, err)

	require.Len(t, exec.requests, 1)
	src := exec.requests[0].Files[0].Content
	assert.True(t, strings.HasPrefix(src, "function add(x, y) { return x + y }"))
	assert.Contains(t, src, "add(...__args)")
	assert.Contains(t, src, `JSON.parse("{\"x\":1,\"y\":2}")`)
}

func TestScore(t *testing.T) {
	tests := []struct {
		points, passed, total, want int
	}{
		{100, 2, 3, 67},
		{100, 1, 3, 33},
		{100, 3, 3, 100},
		{10, 1, 4, 3},
		{5, 1, 2, 3},
		{100, 0, 0, 0},
		{0, 3, 3, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, judge.Score(tt.points, tt.passed, tt.total), "%d*%d/%d", tt.points, tt.passed, tt.total)
	}
}

func TestSameJSONText(t *testing.T) {
	assert.True(t, judge.SameJSONText(json.RawMessage(`[1, 2]`), json.RawMessage(`[1,2]`)))
	assert.False(t, judge.SameJSONText(json.RawMessage(`[2,1]`), json.RawMessage(`[1,2]`)))
	assert.False(t, judge.SameJSONText(json.RawMessage(`{"a":1,"b":2}`), json.RawMessage(`{"b":2,"a":1}`)))
	assert.False(t, judge.SameJSONText(nil, json.RawMessage(`null`)))
	assert.True(t, judge.SameJSONText(json.RawMessage(`"x"`), json.RawMessage(`"x"`)))
}

func TestTimedOut(t *testing.T) {
	c := challengeWith(50, tc(`[1]`, `1`), tc(`[2]`, `2`))
	result := judge.TimedOut(c)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, result.Total)
	for _, d := range result.Details {
		assert.Equal(t, judge.ErrMsgTimeLimit, d.Error)
	}
}
