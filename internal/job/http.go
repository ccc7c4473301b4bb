package job

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/me/flowrun/pkg/model"
)

// HTTPJob drives a job hosted by a remote service over a small REST
// contract: POST {base}/start begins execution and returns immediately,
// GET {base}/status reports the current state, POST {base}/kill requests
// termination. The actual work runs on the remote side; the coordinator
// only polls.
type HTTPJob struct {
	name    string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPJob creates an HTTPJob for the service at baseURL.
func NewHTTPJob(name, baseURL string, logger *slog.Logger) *HTTPJob {
	return &HTTPJob{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger.With("component", "http-job", "job", name),
	}
}

// WithClient replaces the HTTP client (for timeouts or test transports).
func (j *HTTPJob) WithClient(client *http.Client) *HTTPJob {
	j.client = client
	return j
}

// Name returns the job name.
func (j *HTTPJob) Name() string {
	return j.name
}

// Run asks the remote service to start the job.
func (j *HTTPJob) Run(ctx context.Context) error {
	resp, err := j.do(ctx, http.MethodPost, "/start")
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("job %s: start: unexpected status %d", j.name, resp.StatusCode)
	}
	j.logger.Debug("remote job started")
	return nil
}

// statusResponse is the remote status document.
type statusResponse struct {
	Status string `json:"status"`
}

// Status queries the remote status endpoint. Unknown status strings map
// to UNDETERMINED rather than failing the poll.
func (j *HTTPJob) Status(ctx context.Context) (model.Status, error) {
	resp, err := j.do(ctx, http.MethodGet, "/status")
	if err != nil {
		return model.StatusUndetermined, err
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		return model.StatusUndetermined, fmt.Errorf("job %s: status: unexpected status %d", j.name, resp.StatusCode)
	}

	var sr statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return model.StatusUndetermined, fmt.Errorf("job %s: parse status: %w", j.name, err)
	}
	return mapRemoteStatus(sr.Status), nil
}

// Kill requests termination. A 404 from the kill endpoint is treated as
// success: the remote job is already gone.
func (j *HTTPJob) Kill(ctx context.Context) error {
	resp, err := j.do(ctx, http.MethodPost, "/kill")
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("job %s: kill: unexpected status %d", j.name, resp.StatusCode)
	}
	return nil
}

func (j *HTTPJob) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, j.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("job %s: create request: %w", j.name, err)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job %s: %s %s: %w", j.name, method, path, err)
	}
	return resp, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// mapRemoteStatus converts a remote status string to a Status. The
// mapping is case-insensitive and accepts common aliases for each state.
func mapRemoteStatus(s string) model.Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NOT_STARTED", "PENDING", "QUEUED":
		return model.StatusNotStarted
	case "RUNNING", "IN_PROGRESS":
		return model.StatusRunning
	case "FINISHED", "COMPLETED", "SUCCESS":
		return model.StatusFinished
	case "FAILED", "ERROR":
		return model.StatusFailed
	default:
		return model.StatusUndetermined
	}
}
