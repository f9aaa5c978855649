package judge

import (
	"bytes"
	"campus_club_backend/internal/model"
	"campus_club_backend/pkg/logger"
	"campus_club_backend/pkg/monitoring"
	"campus_club_backend/pkg/tracing"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	ErrMsgParseOutput = "Failed to parse output"
	ErrMsgTimeLimit   = "Time limit exceeded"
)

// RequestBuilder 由执行客户端提供，负责填充语言、版本和资源限制
type RequestBuilder interface {
	NewRequest(filename, source string) ExecuteRequest
}

// Grader 将一次提交转换为 SubmissionResult。
// 测试用例按顺序逐个提交给执行服务；任何单个用例的失败只记为该用例未通过。
type Grader struct {
	exec    Executor
	builder RequestBuilder
}

func NewGrader(exec Executor, builder RequestBuilder) *Grader {
	return &Grader{exec: exec, builder: builder}
}

// NewPistonGrader 执行客户端同时充当请求构造器
func NewPistonGrader(client *PistonClient) *Grader {
	return NewGrader(client, client)
}

type wrapperOutput struct {
	Success  bool            `json:"success"`
	Result   json.RawMessage `json:"result"`
	Expected json.RawMessage `json:"expected"`
	Error    string          `json:"error"`
}

// Grade 仅在挑战定义不完整时返回错误，此时不会发起任何执行
func (g *Grader) Grade(ctx context.Context, challenge *model.Challenge, code string) (model.SubmissionResult, error) {
	cases := challenge.Cases()
	if strings.TrimSpace(challenge.FunctionName) == "" {
		return model.SubmissionResult{}, ErrNoFunctionName
	}
	if len(cases) == 0 {
		return model.SubmissionResult{}, ErrNoTestCases
	}

	ctx, span := tracing.Tracer.Start(ctx, "judge.Grade")
	defer span.End()
	span.SetAttributes(
		attribute.String("challenge.id", challenge.ID),
		attribute.Int("challenge.test_cases", len(cases)),
	)

	start := time.Now()
	details := make([]model.TestCaseOutcome, 0, len(cases))
	for i, tc := range cases {
		outcome := g.runCase(ctx, challenge.FunctionName, code, i, tc)
		details = append(details, outcome)
	}
	monitoring.GradingDuration.Observe(time.Since(start).Seconds())

	result := Aggregate(challenge.Points, details)
	monitoring.GradingRuns.WithLabelValues(runLabel(result)).Inc()
	span.SetAttributes(attribute.Int("result.passed", result.Passed), attribute.Int("result.score", result.Score))

	return result, nil
}

func (g *Grader) runCase(ctx context.Context, functionName, code string, index int, tc model.TestCase) model.TestCaseOutcome {
	outcome := model.TestCaseOutcome{
		TestCase: index,
		Input:    tc.Input,
		Expected: tc.Expected,
	}

	source, err := BuildWrapper(code, functionName, tc.Input, tc.Expected)
	if err != nil {
		outcome.Error = err.Error()
		monitoring.TestCaseOutcomes.WithLabelValues("invalid_case").Inc()
		return outcome
	}

	resp, err := g.exec.Execute(ctx, g.builder.NewRequest(wrapperFilename, source))
	if err != nil {
		logger.WithContext(ctx).Warn("execution request failed", zap.Int("testCase", index), zap.Error(err))
		outcome.Error = err.Error()
		monitoring.TestCaseOutcomes.WithLabelValues("transport_error").Inc()
		return outcome
	}

	if !resp.Run.Succeeded() {
		outcome.Error = resp.Run.Stderr
		if outcome.Error == "" && resp.Run.Signal != nil {
			outcome.Error = "process killed by " + *resp.Run.Signal
		}
		monitoring.TestCaseOutcomes.WithLabelValues("runtime_error").Inc()
		return outcome
	}

	var out wrapperOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Run.Stdout)), &out); err != nil {
		outcome.Error = ErrMsgParseOutput
		monitoring.TestCaseOutcomes.WithLabelValues("parse_error").Inc()
		return outcome
	}

	if !out.Success {
		outcome.Error = out.Error
		monitoring.TestCaseOutcomes.WithLabelValues("exception").Inc()
		return outcome
	}

	outcome.Actual = out.Result
	outcome.Passed = SameJSONText(out.Result, out.Expected)
	if outcome.Passed {
		monitoring.TestCaseOutcomes.WithLabelValues("passed").Inc()
	} else {
		monitoring.TestCaseOutcomes.WithLabelValues("wrong_answer").Inc()
	}
	return outcome
}

// SameJSONText 比较两个 JSON 值的序列化文本。
// 数组顺序与对象键的插入顺序都参与比较：{"a":1,"b":2} 与 {"b":2,"a":1} 视为不同。
// 缺失的值（函数返回 undefined）与任何值都不相等。
func SameJSONText(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return false
	}
	if err := json.Compact(&cb, b); err != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// Score round(points × passed / total)，total 为 0 时为 0
func Score(points, passed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(points)*float64(passed)/float64(total) + 0.5))
}

// Aggregate 根据逐用例结果汇总计数与得分
func Aggregate(points int, details []model.TestCaseOutcome) model.SubmissionResult {
	result := model.SubmissionResult{Details: details}
	for _, d := range details {
		if d.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	result.Total = result.Passed + result.Failed
	result.Score = Score(points, result.Passed, result.Total)
	return result
}

// TimedOut 超过时限后的强制判分：所有用例记为失败，得分为 0，不发起执行
func TimedOut(challenge *model.Challenge) model.SubmissionResult {
	cases := challenge.Cases()
	details := make([]model.TestCaseOutcome, 0, len(cases))
	for i, tc := range cases {
		details = append(details, model.TestCaseOutcome{
			TestCase: i,
			Input:    tc.Input,
			Expected: tc.Expected,
			Error:    ErrMsgTimeLimit,
		})
	}
	monitoring.GradingRuns.WithLabelValues("timed_out").Inc()
	return Aggregate(challenge.Points, details)
}

func runLabel(r model.SubmissionResult) string {
	switch {
	case r.Total > 0 && r.Passed == r.Total:
		return "accepted"
	case r.Passed > 0:
		return "partial"
	default:
		return "rejected"
	}
}

var (
	ErrNoFunctionName = errors.New("challenge has no function name")
	ErrNoTestCases    = errors.New("challenge has no test cases")
)
