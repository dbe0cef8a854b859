package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// Result is the JSON envelope the workflow engine returns for ingest and
// enrich calls. Preview returns raw HTML instead.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type EnrichBookRequest struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Client invokes the external workflow-automation webhooks. All calls are
// single attempts; a non-2xx response becomes an error carrying the response
// body so the dashboard can show what the engine said.
type Client interface {
	IngestFile(ctx context.Context, filename, contentType string, file io.Reader) (*Result, error)
	EnrichBook(ctx context.Context, req EnrichBookRequest) (*Result, error)
	RenderPreview(ctx context.Context, style, length string) (string, error)
}

type Config struct {
	IngestURL  string
	EnrichURL  string
	PreviewURL string
	// Secret is sent as X-Webhook-Secret on every call; the same value the
	// engine presents on its callback. Empty leaves the header off.
	Secret  string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		IngestURL:  strings.TrimSpace(os.Getenv("WORKFLOW_INGEST_URL")),
		EnrichURL:  strings.TrimSpace(os.Getenv("WORKFLOW_ENRICH_URL")),
		PreviewURL: strings.TrimSpace(os.Getenv("WORKFLOW_PREVIEW_URL")),
		Secret:     os.Getenv("WEBHOOK_SECRET"),
		Timeout:    time.Duration(envutil.Int("WORKFLOW_TIMEOUT_SECONDS", 120)) * time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.IngestURL == "" {
		return nil, fmt.Errorf("missing WORKFLOW_INGEST_URL")
	}
	if cfg.EnrichURL == "" {
		return nil, fmt.Errorf("missing WORKFLOW_ENRICH_URL")
	}
	if cfg.PreviewURL == "" {
		return nil, fmt.Errorf("missing WORKFLOW_PREVIEW_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &client{
		log:        log.With("client", "WorkflowClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func (c *client) IngestFile(ctx context.Context, filename, contentType string, file io.Reader) (*Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy upload into multipart body: %w", err)
	}
	if contentType != "" {
		if err := mw.WriteField("content_type", contentType); err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	raw, err := c.post(ctx, c.cfg.IngestURL, mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("workflow ingest: %w", err)
	}
	return decodeResult(raw)
}

func (c *client) EnrichBook(ctx context.Context, req EnrichBookRequest) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	raw, err := c.post(ctx, c.cfg.EnrichURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("workflow enrich: %w", err)
	}
	return decodeResult(raw)
}

func (c *client) RenderPreview(ctx context.Context, style, length string) (string, error) {
	body, err := json.Marshal(map[string]string{"style": style, "length": length})
	if err != nil {
		return "", err
	}
	raw, err := c.post(ctx, c.cfg.PreviewURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("workflow preview: %w", err)
	}
	return string(raw), nil
}

func (c *client) post(ctx context.Context, url, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.Secret != "" {
		req.Header.Set("X-Webhook-Secret", c.cfg.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

func decodeResult(raw []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode workflow response: %w", err)
	}
	return &res, nil
}
