package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// HTTPEncoder calls a sentence-embedding sidecar that speaks the
// text-embeddings-inference protocol: POST /embed {"inputs": [...]}.
type HTTPEncoder struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

type embedRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
}

func NewHTTPEncoder(baseURL string, timeout time.Duration, logger *log.Logger) (*HTTPEncoder, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("embedding: empty base url")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEncoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (e *HTTPEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	endpoint := e.baseURL + "/embed"

	b, err := json.Marshal(embedRequest{Inputs: texts, Normalize: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		body := strings.TrimSpace(string(rb))
		if e.logger != nil {
			e.logger.Printf("[Embedding] encode error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, body)
		}
		return nil, fmt.Errorf("embedding: status=%d body=%s", resp.StatusCode, body)
	}

	var out [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embedding: decode: %w", err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(out), len(texts))
	}
	for i := range out {
		Unit(out[i])
	}
	return out, nil
}

var _ Encoder = (*HTTPEncoder)(nil)
