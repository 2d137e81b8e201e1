package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/sublingo/sublingo/pkg/models"
)

// DefaultBeamSize is the beam search width used when none is configured.
const DefaultBeamSize = 5

// WhisperClient talks to a whisper.cpp inference server over HTTP. The
// server is expected to expose the /inference endpoint and accept multipart
// WAV uploads.
type WhisperClient struct {
	baseURL    string
	beamSize   int
	httpClient *http.Client
}

// NewWhisperClient creates a client for the given server base URL.
func NewWhisperClient(baseURL string, beamSize int, timeout time.Duration) *WhisperClient {
	if beamSize <= 0 {
		beamSize = DefaultBeamSize
	}
	return &WhisperClient{
		baseURL:    baseURL,
		beamSize:   beamSize,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// whisperSegment mirrors one entry of the verbose_json segment list.
type whisperSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// whisperResponse mirrors the verbose_json response of the inference server.
type whisperResponse struct {
	Task     string           `json:"task"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []whisperSegment `json:"segments"`
	Text     string           `json:"text"`
}

// Transcribe uploads the audio file and returns the timed segments. The
// detected language defaults to "en" when the engine reports nothing.
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	fields := map[string]string{
		"response_format": "verbose_json",
		"beam_size":       strconv.Itoa(c.beamSize),
	}
	if opts.Language != "" {
		fields["language"] = opts.Language
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transcription failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var decoded whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse transcription response: %w", err)
	}

	detected := decoded.Language
	if opts.Language != "" {
		// Caller-supplied hint overrides detection unconditionally.
		detected = opts.Language
	}
	if detected == "" {
		detected = "en"
	}

	segments := lo.Map(decoded.Segments, func(s whisperSegment, _ int) models.Segment {
		return models.Segment{Start: s.Start, End: s.End, Text: s.Text}
	})

	return &Result{
		Segments: segments,
		Language: detected,
		Duration: decoded.Duration,
	}, nil
}
