package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"

// GeminiProvider calls generateContent on the Generative Language REST API.
// Failures are not retried on the same model; the Fallback moves on instead.
type GeminiProvider struct {
	log        *logger.Logger
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiProvider builds a client. endpoint overrides the default base URL,
// mostly useful against a local stub.
func NewGeminiProvider(log *logger.Logger, apiKey, endpoint string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultGeminiEndpoint
	}
	return &GeminiProvider{
		log:        log.With("service", "GeminiProvider"),
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}, nil
}

func (g *GeminiProvider) Name() string { return ProviderGemini }

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      *geminiContent `json:"content,omitempty"`
		FinishReason string         `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

// geminiHTTPError carries the decoded Google error so httpx can classify it.
type geminiHTTPError struct {
	err *googleapi.Error
}

func (e *geminiHTTPError) Error() string       { return e.err.Error() }
func (e *geminiHTTPError) Unwrap() error       { return e.err }
func (e *geminiHTTPError) HTTPStatusCode() int { return e.err.Code }

func (g *GeminiProvider) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(model), "models/")
	body := generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	u := g.endpoint + "/v1beta/models/" + url.PathEscape(name) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}
	defer resp.Body.Close()
	if err := googleapi.CheckResponse(resp); err != nil {
		if gErr, ok := err.(*googleapi.Error); ok {
			return "", fmt.Errorf("gemini %s: %w", model, &geminiHTTPError{err: gErr})
		}
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini %s: read body: %w", model, err)
	}

	var out generateContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini %s: decode: %w", model, err)
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini %s: prompt blocked: %s", model, out.PromptFeedback.BlockReason)
	}

	var text strings.Builder
	for _, cand := range out.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			text.WriteString(part.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	return text.String(), nil
}
