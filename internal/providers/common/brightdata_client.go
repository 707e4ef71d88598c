package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrightDataClient handles all HTTP interactions with the BrightData
// datasets API. The perplexity and gemini providers share it.
type BrightDataClient struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewBrightDataClient creates a new BrightData API client
func NewBrightDataClient(apiKey string) *BrightDataClient {
	return NewBrightDataClientWithBaseURL(apiKey, "https://api.brightdata.com/datasets/v3")
}

// NewBrightDataClientWithBaseURL creates a client pointed at a custom API
// endpoint, used by tests to target a local server
func NewBrightDataClientWithBaseURL(apiKey, baseURL string) *BrightDataClient {
	return &BrightDataClient{
		apiKey:       apiKey,
		baseURL:      baseURL,
		pollInterval: 10 * time.Second,
		httpClient: &http.Client{
			Timeout: 20 * time.Minute, // Long timeout for async operations
		},
	}
}

// SetPollInterval overrides the completion-poll cadence
func (c *BrightDataClient) SetPollInterval(interval time.Duration) {
	c.pollInterval = interval
}

// SubmitJob submits a scrape job to BrightData and returns its snapshot id
func (c *BrightDataClient) SubmitJob(ctx context.Context, payload interface{}, datasetID string) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/trigger?dataset_id=%s&include_errors=true", c.baseURL, datasetID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("BrightData API returned status %d", resp.StatusCode)
	}

	var triggerResp TriggerResponse
	if err := json.NewDecoder(resp.Body).Decode(&triggerResp); err != nil {
		return "", fmt.Errorf("failed to decode trigger response: %w", err)
	}

	return triggerResp.SnapshotID, nil
}

// CheckProgress checks the progress of a BrightData job
func (c *BrightDataClient) CheckProgress(ctx context.Context, snapshotID string) (*ProgressResponse, error) {
	url := fmt.Sprintf("%s/progress/%s", c.baseURL, snapshotID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("progress check returned status %d", resp.StatusCode)
	}

	var progressResp ProgressResponse
	if err := json.NewDecoder(resp.Body).Decode(&progressResp); err != nil {
		return nil, fmt.Errorf("failed to decode progress response: %w", err)
	}

	return &progressResp, nil
}

// PollUntilComplete polls for job completion and returns when ready
func (c *BrightDataClient) PollUntilComplete(ctx context.Context, snapshotID string, providerName string) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	pollCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pollCount++
			status, err := c.CheckProgress(ctx, snapshotID)
			if err != nil {
				fmt.Printf("[%s] ⚠️ Progress check failed (attempt %d), retrying: %v\n", providerName, pollCount, err)
				continue
			}

			fmt.Printf("[%s] 📊 Job status: %s (poll #%d)\n", providerName, status.Status, pollCount)

			if status.Status == "ready" {
				fmt.Printf("[%s] ✅ Job completed after %d polls\n", providerName, pollCount)
				return nil
			}

			if status.Status == "failed" {
				return fmt.Errorf("job failed for snapshot %s", snapshotID)
			}
		}
	}
}

// GetResults retrieves the results of a completed job, retrying while the
// snapshot is still building
func (c *BrightDataClient) GetResults(ctx context.Context, snapshotID string, providerName string) ([]byte, error) {
	maxRetries := 20
	retryInterval := c.pollInterval * 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		url := fmt.Sprintf("%s/snapshot/%s?format=json", c.baseURL, snapshotID)
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create results request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to get results: %w", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			resp.Body.Close()
			return nil, fmt.Errorf("results request returned status %d", resp.StatusCode)
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		fmt.Printf("[%s] 🔍 Response body length: %d bytes (attempt %d/%d)\n", providerName, len(bodyBytes), attempt, maxRetries)

		isStatus, status, message := IsStatusResponse(bodyBytes)
		if isStatus {
			if status == "building" {
				fmt.Printf("[%s] ⏳ Snapshot still building (attempt %d/%d): %s\n", providerName, attempt, maxRetries, message)
				if attempt < maxRetries {
					select {
					case <-time.After(retryInterval):
						continue
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				}
				return nil, fmt.Errorf("snapshot still building after %d attempts", maxRetries)
			} else if status == "failed" {
				return nil, fmt.Errorf("snapshot failed: %s", message)
			}
			fmt.Printf("[%s] ⚠️ Unknown status '%s', attempting to decode as results\n", providerName, status)
		}

		return bodyBytes, nil
	}

	return nil, fmt.Errorf("failed to retrieve results after %d attempts", maxRetries)
}
