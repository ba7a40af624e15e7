package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/spamham/lib/encoder"
	"github.com/umputun/spamham/lib/spamcheck"
)

// maxResponseSize limits classifier response body
const maxResponseSize = 1024 * 1024

// HTTPClient is a subset of http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPPredictor posts encoded messages to a classifier http endpoint
type HTTPPredictor struct {
	URL    string
	Token  string     // optional bearer token
	Client HTTPClient // http.DefaultClient if nil
}

// Predict sends matrix to the endpoint and returns one result per matrix row
func (p *HTTPPredictor) Predict(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error) {
	if p.URL == "" {
		return nil, errors.New("inference url not configured")
	}
	body, err := encodeRequest(m)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("can't make request to %s: %w", p.URL, err)
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", ContentType)
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't send request to %s: %w", p.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("can't read response from %s: %w", p.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, p.URL, strings.TrimSpace(string(data)))
	}

	res, err := decodeResponse(data, m.Rows)
	if err != nil {
		return nil, fmt.Errorf("can't decode response from %s: %w", p.URL, err)
	}
	log.Printf("[DEBUG] inference %s, %d rows, first: %s", p.URL, len(res), res[0])
	return res, nil
}
