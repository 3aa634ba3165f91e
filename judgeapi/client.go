package judgeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/programme-lv/judgetrack/tracksrvc"
)

// Client wraps the remote judge's HTTP endpoints: job
// submission and on-demand status query. Requests carry the
// external partner api key.
type Client struct {
	logger *slog.Logger
	httpc  *http.Client
	apiUrl string
	apiKey string
}

var _ tracksrvc.JudgeClient = (*Client)(nil)

func NewClient(
	logger *slog.Logger,
	apiUrl string,
	apiKey string,
) *Client {
	return &Client{
		logger: logger,
		httpc:  &http.Client{Timeout: 15 * time.Second},
		apiUrl: apiUrl,
		apiKey: apiKey,
	}
}

type submitReq struct {
	ProblemId string `json:"problem_id"`
	SrcCode   string `json:"code"`
	LangId    string `json:"lang"`
	EnableO2  bool   `json:"o2"`
	TrackId   string `json:"track_id"` // echoed back in result envelopes
}

type submitResp struct {
	RemoteId string `json:"rid"`
}

// SubmitJob submits code for judging. The trackId is embedded
// as a caller-echoed token; the judge's own handle is
// returned for active status queries.
func (c *Client) SubmitJob(
	ctx context.Context,
	req tracksrvc.Request,
	trackId string,
) (string, error) {
	body, err := json.Marshal(submitReq{
		ProblemId: req.ProblemId,
		SrcCode:   req.SrcCode,
		LangId:    req.LangId,
		EnableO2:  req.EnableO2,
		TrackId:   trackId,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		c.apiUrl+"/judge/submit",
		bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to submit job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("submit", resp)
	}

	var sr submitResp
	err = json.NewDecoder(resp.Body).Decode(&sr)
	if err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if sr.RemoteId == "" {
		return "", fmt.Errorf("judge returned empty remote id")
	}
	return sr.RemoteId, nil
}

// QueryJobStatus actively queries the judge for the current
// status of a job. A 204 response means the status is not yet
// available and maps to a nil result without error.
func (c *Client) QueryJobStatus(
	ctx context.Context,
	remoteId string,
) (*tracksrvc.JobResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx,
		http.MethodGet,
		c.apiUrl+"/judge/status/"+url.PathEscape(remoteId),
		nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to query job status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("status", resp)
	}

	res := &tracksrvc.JobResult{}
	err = json.NewDecoder(resp.Body).Decode(res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return res, nil
}

func statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("judge %s returned status %d: %s",
		op, resp.StatusCode, string(snippet))
}
