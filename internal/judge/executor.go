package judge

import (
	"bytes"
	"campus_club_backend/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Executor 外部沙箱执行服务。评测只通过它运行用户代码，进程内从不执行。
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error)
}

type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ExecuteRequest Piston /execute 请求体
type ExecuteRequest struct {
	Language           string   `json:"language"`
	Version            string   `json:"version"`
	Files              []File   `json:"files"`
	Stdin              string   `json:"stdin"`
	Args               []string `json:"args"`
	CompileTimeout     int      `json:"compile_timeout"`
	RunTimeout         int      `json:"run_timeout"`
	CompileMemoryLimit int64    `json:"compile_memory_limit"`
	RunMemoryLimit     int64    `json:"run_memory_limit"`
}

type RunResult struct {
	Code   *int    `json:"code"`
	Signal *string `json:"signal"`
	Stdout string  `json:"stdout"`
	Stderr string  `json:"stderr"`
	Output string  `json:"output"`
}

// Succeeded 进程正常退出且退出码为 0；被信号杀死时 code 为 null
func (r RunResult) Succeeded() bool {
	return r.Code != nil && *r.Code == 0
}

type ExecuteResponse struct {
	Language string    `json:"language"`
	Version  string    `json:"version"`
	Run      RunResult `json:"run"`
	Message  string    `json:"message,omitempty"`
}

type PistonClient struct {
	cfg    config.ExecutorConfig
	client *http.Client
}

func NewPistonClient(cfg config.ExecutorConfig) *PistonClient {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PistonClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// NewRequest 按配置的语言、版本和资源限制构造请求
func (p *PistonClient) NewRequest(filename, source string) ExecuteRequest {
	return ExecuteRequest{
		Language:           p.cfg.Language,
		Version:            p.cfg.Version,
		Files:              []File{{Name: filename, Content: source}},
		Stdin:              "",
		Args:               []string{},
		CompileTimeout:     p.cfg.CompileTimeoutMs,
		RunTimeout:         p.cfg.RunTimeoutMs,
		CompileMemoryLimit: p.cfg.CompileMemoryLimit,
		RunMemoryLimit:     p.cfg.RunMemoryLimit,
	}
}

func (p *PistonClient) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execution service error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result ExecuteResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode execution response: %w", err)
	}
	return &result, nil
}
