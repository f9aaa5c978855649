package judge_test

import (
	"encoding/json"
	"strings"
	"testing"

	"campus_club_backend/internal/judge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWrapper(t *testing.T) {
	src, err := judge.BuildWrapper("function f(a){return a}", "f", json.RawMessage(`{"n":"</script>"}`), json.RawMessage(`"x"`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "function f(a){return a}\n"))
	assert.Contains(t, src, "const result = f(...__args);")
	assert.Contains(t, src, "Object.values(__input)")
	// 字符串字面量中的特殊字符被转义
	assert.Contains(t, src, `JSON.parse("{\"n\":\"\u003c/script\u003e\"}")`)
	assert.Contains(t, src, `JSON.parse("\"x\"")`)
}

func TestBuildWrapper_InvalidJSON(t *testing.T) {
	_, err := judge.BuildWrapper("", "f", json.RawMessage(`{bad`), json.RawMessage(`1`))
	assert.Error(t, err)
}
