package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxLength is the token budget for a single segment when none is
// configured. Longer inputs are truncated by the inference server.
const DefaultMaxLength = 1024

// HTTPEngine talks to a multilingual translation inference server. The
// server hosts the model and exposes POST /translate plus GET /languages for
// the supported-language set.
type HTTPEngine struct {
	baseURL    string
	maxLength  int
	httpClient *http.Client
	supported  map[string]struct{}
}

// NewHTTPEngine creates an engine client and probes the server for its
// supported languages. An unreachable or unready server is a construction
// error; the caller (the registry) turns that into degraded mode.
func NewHTTPEngine(baseURL string, maxLength int, timeout time.Duration) (*HTTPEngine, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	engine := &HTTPEngine{
		baseURL:    baseURL,
		maxLength:  maxLength,
		httpClient: &http.Client{Timeout: timeout},
	}

	if err := engine.loadLanguages(); err != nil {
		return nil, fmt.Errorf("translation model unavailable: %w", err)
	}

	return engine, nil
}

func (e *HTTPEngine) loadLanguages() error {
	resp, err := e.httpClient.Get(e.baseURL + "/languages")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("languages probe returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Languages []string `json:"languages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to parse languages response: %w", err)
	}

	e.supported = make(map[string]struct{}, len(decoded.Languages))
	for _, code := range decoded.Languages {
		e.supported[code] = struct{}{}
	}

	return nil
}

// Supports reports whether the model knows the given language code.
func (e *HTTPEngine) Supports(code string) bool {
	_, ok := e.supported[code]
	return ok
}

type translateRequest struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	Target    string `json:"target,omitempty"`
	MaxLength int    `json:"max_length"`
}

type translateResponse struct {
	Translation string `json:"translation"`
}

// Translate converts text from source to target. An empty target requests
// unconstrained decoding.
func (e *HTTPEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Text:      text,
		Source:    source,
		Target:    target,
		MaxLength: e.maxLength,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to parse translation response: %w", err)
	}

	return decoded.Translation, nil
}
