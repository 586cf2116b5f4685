package hue

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/ambience/internal/concurrency"
)

var (
	ErrUnreachable     = errors.New("hue: unreachable")
	ErrCommandRejected = errors.New("hue: command rejected")
	ErrUnauthorized    = errors.New("hue: unauthorized application key")
)

// Client talks to the bridge's REST api. It is the production implementation of the bridge
// capability used by the device state store, the reconciler and scene activation.
type Client struct {
	logger     *log.Logger
	host       string
	appKey     string
	httpClient *http.Client
	worker     *concurrency.ThrottledWorker
}

func NewClient(logger *log.Logger, host string, appKey string, worker *concurrency.ThrottledWorker) *Client {
	return &Client{
		logger: logger,
		host:   host,
		appKey: appKey,
		// bridges use a self signed certificate
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		worker: worker,
	}
}

func (c *Client) Host() string {
	return c.host
}

func (c *Client) GET(ctx context.Context, path string) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodGet, path, nil)
}

func (c *Client) makeRequest(ctx context.Context, verb string, path string, body []byte) ([]byte, error) {
	var responseBody []byte
	err := c.worker.Do(ctx, func(ctx context.Context) error {
		var err error
		responseBody, err = c.do(ctx, verb, path, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return responseBody, nil
}

// do performs the request without waiting on the worker, callers are already paced
func (c *Client) do(ctx context.Context, verb string, path string, body []byte) ([]byte, error) {
	url := fmt.Sprintf("https://%s/api/%s%s", c.host, c.appKey, path)

	req, err := http.NewRequestWithContext(ctx, verb, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusMultiStatus:
		// returned when the bridge accepted the request but a light did not respond
		return nil, ErrUnreachable
	default:
		c.logger.Error("Error making Hue API call", "path", path, "status", resp.Status)
		return nil, fmt.Errorf("hue: %s %s returned %s", verb, path, resp.Status)
	}
}

// the v1 api answers writes, and failed reads, with a list of success/error entries
type apiResult struct {
	Success map[string]any `json:"success"`
	Error   *struct {
		Type        int    `json:"type"`
		Address     string `json:"address"`
		Description string `json:"description"`
	} `json:"error"`
}

const errorTypeUnauthorized = 1

func checkResults(body []byte) error {
	results := []apiResult{}
	if err := json.Unmarshal(body, &results); err != nil {
		return fmt.Errorf("error parsing bridge response: %w", err)
	}

	var errs []error
	for _, r := range results {
		if r.Error == nil {
			continue
		}
		if r.Error.Type == errorTypeUnauthorized {
			return ErrUnauthorized
		}
		errs = append(errs, fmt.Errorf("%w: %s (%s)", ErrCommandRejected, r.Error.Description, r.Error.Address))
	}
	return errors.Join(errs...)
}
