package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/logger"
)

// maxTrackedCalls bounds the in-memory API call history.
const maxTrackedCalls = 100

type LLMService struct {
	baseURL   string
	llmModel  string
	client    *http.Client
	apiCalls  []LLMAPICall
	callMutex sync.RWMutex
}

type OllamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system,omitempty"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

type OllamaModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// LLMAPICall is one tracked request to the model server.
type LLMAPICall struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Endpoint  string                 `json:"endpoint"`
	Model     string                 `json:"model"`
	PaperID   *uint                  `json:"paperId,omitempty"`
	JobID     *uint                  `json:"jobId,omitempty"`
	CallType  string                 `json:"callType"`
	Payload   map[string]interface{} `json:"payload"`
	Status    int                    `json:"status"`
	Duration  time.Duration          `json:"duration"`
	Response  string                 `json:"response"`
	Error     string                 `json:"error,omitempty"`
}

type callInfoKey struct{}

type callInfo struct {
	paperID *uint
	jobID   *uint
}

// WithCallInfo tags ctx so calls made with it are tracked against the paper
// and job.
func WithCallInfo(ctx context.Context, paperID, jobID uint) context.Context {
	return context.WithValue(ctx, callInfoKey{}, callInfo{paperID: &paperID, jobID: &jobID})
}

func NewLLMService(cfg config.LLMConfig) *LLMService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.1:8b"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &LLMService{
		baseURL:  baseURL,
		llmModel: model,
		client:   &http.Client{Timeout: timeout},
		apiCalls: make([]LLMAPICall, 0),
	}
}

// GetAPICalls returns a copy of the tracked calls, oldest first.
func (ls *LLMService) GetAPICalls() []LLMAPICall {
	ls.callMutex.RLock()
	defer ls.callMutex.RUnlock()

	calls := make([]LLMAPICall, len(ls.apiCalls))
	copy(calls, ls.apiCalls)
	return calls
}

func (ls *LLMService) ClearAPICalls() {
	ls.callMutex.Lock()
	defer ls.callMutex.Unlock()
	ls.apiCalls = make([]LLMAPICall, 0)
}

func (ls *LLMService) addAPICall(call LLMAPICall) {
	ls.callMutex.Lock()
	defer ls.callMutex.Unlock()

	if len(ls.apiCalls) >= maxTrackedCalls {
		ls.apiCalls = ls.apiCalls[1:]
	}
	ls.apiCalls = append(ls.apiCalls, call)
}

func (ls *LLMService) trackAPICall(ctx context.Context, callType string, payload map[string]interface{}, status int, duration time.Duration, response string, err string) {
	info, _ := ctx.Value(callInfoKey{}).(callInfo)
	now := time.Now()
	ls.addAPICall(LLMAPICall{
		ID:        fmt.Sprintf("llm_%d", now.UnixNano()),
		Timestamp: now,
		Endpoint:  "/api/generate",
		Model:     ls.llmModel,
		PaperID:   info.paperID,
		JobID:     info.jobID,
		CallType:  callType,
		Payload:   payload,
		Status:    status,
		Duration:  duration,
		Response:  response,
		Error:     err,
	})
}

// Generate sends one non-streaming completion request with system as the
// system prompt and text as the user prompt.
func (ls *LLMService) Generate(ctx context.Context, system, text string) (string, error) {
	started := time.Now()
	payload := map[string]interface{}{"prompt_length": len(text)}
	status := 0
	fail := func(err error) (string, error) {
		ls.trackAPICall(ctx, "insight_extraction", payload, status, time.Since(started), "", err.Error())
		return "", err
	}

	body, err := json.Marshal(OllamaGenerateRequest{
		Model:  ls.llmModel,
		Prompt: text,
		System: system,
		Options: map[string]interface{}{
			"temperature": 0.4,
			"num_predict": 300,
		},
	})
	if err != nil {
		return fail(fmt.Errorf("encode generate request: %w", err))
	}

	endpoint := ls.baseURL + "/api/generate"
	logger.Debug("Requesting insights from model", map[string]interface{}{
		"url":           endpoint,
		"model":         ls.llmModel,
		"prompt_length": len(text),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("build generate request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ls.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("model server unreachable: %w", err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fail(fmt.Errorf("model server returned %d: %s", resp.StatusCode, snippet))
	}

	var out OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fail(fmt.Errorf("decode generate response: %w", err))
	}

	elapsed := time.Since(started)
	logger.Debug("Model response received", map[string]interface{}{
		"duration_ms":     elapsed.Milliseconds(),
		"response_length": len(out.Response),
	})
	ls.trackAPICall(ctx, "insight_extraction", payload, status, elapsed, out.Response, "")
	return out.Response, nil
}

// tags lists the models installed on the server.
func (ls *LLMService) tags(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ls.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := ls.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned %d", resp.StatusCode)
	}

	var list OllamaModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// CheckLLMHealth reports whether the model server answers and has the
// configured model installed.
func (ls *LLMService) CheckLLMHealth(ctx context.Context) error {
	names, err := ls.tags(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == ls.llmModel {
			return nil
		}
	}
	return fmt.Errorf("model %q is not installed", ls.llmModel)
}

func (ls *LLMService) GetAvailableModels(ctx context.Context) ([]string, error) {
	return ls.tags(ctx)
}

func (ls *LLMService) Model() string {
	return ls.llmModel
}
