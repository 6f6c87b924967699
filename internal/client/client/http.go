package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a rejection body is kept in StatusError.
const maxErrorBody = 4 << 10

// HTTPClient talks to the vault server: it reads /data resources and sends
// /api mutations. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
	metrics *metrics.Collector
}

// NewHTTPClient creates a client for the server at baseURL. A zero timeout
// disables the per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger, m *metrics.Collector) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: m,
	}
}

// Fetch implements DataSource with GET {base}/data/{path}.
func (c *HTTPClient) Fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "data/"+strings.TrimLeft(path, "/"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	var body []byte
	err = c.do(req, "fetch", func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", ErrNetworkFailure, req.URL.Path, err)
		}
		body = b
		return nil
	})
	return body, err
}

// Init asks the server to create an empty vault for keyHex. The key is sent
// as a JSON string body.
func (c *HTTPClient) Init(ctx context.Context, keyHex string) error {
	return c.SendJSON(ctx, http.MethodPost, "api/init", keyHex)
}

// SendJSON sends body encoded as JSON.
func (c *HTTPClient) SendJSON(ctx context.Context, method, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s %s body: %w", method, path, err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, opName(path), nil)
}

// SendForm sends form as a streamed multipart/form-data body.
func (c *HTTPClient) SendForm(ctx context.Context, method, path string, form *Form) error {
	body, contentType := form.pipe()
	defer body.Close()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, opName(path), nil)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("building URL for %s: %w", path, err)
	}
	id := uuid.NewString()
	req, err := http.NewRequestWithContext(logging.WithRequestID(ctx, id), method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set(common.RequestIDHeaderName, id)
	return req, nil
}

// do executes req and maps the outcome onto the package errors. handle, if
// set, consumes a successful response body.
func (c *HTTPClient) do(req *http.Request, op string, handle func(*http.Response) error) error {
	ctx := req.Context()
	log := c.logger.With("method", req.Method, "path", req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(op, metrics.OutcomeError, time.Since(start))
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetworkFailure, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		outcome := metrics.OutcomeRejected
		if resp.StatusCode == http.StatusNotFound {
			outcome = metrics.OutcomeNotFound
		}
		c.metrics.ObserveRequest(op, outcome, time.Since(start))
		log.Debug(ctx, "request rejected", "status", resp.StatusCode)
		return &StatusError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if handle != nil {
		if err := handle(resp); err != nil {
			c.metrics.ObserveRequest(op, metrics.OutcomeError, time.Since(start))
			return err
		}
	}

	c.metrics.ObserveRequest(op, metrics.OutcomeOK, time.Since(start))
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))
	return nil
}

func opName(path string) string {
	return strings.Trim(path, "/")
}

// IsNotFound reports whether err means the resource is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
