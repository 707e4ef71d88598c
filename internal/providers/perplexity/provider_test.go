// internal/providers/perplexity/provider_test.go
package perplexity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/providers/common"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/testutil"
)

func testProvider(t *testing.T, server *testutil.MockBrightDataServer) *Provider {
	t.Helper()
	client := common.NewBrightDataClientWithBaseURL("test-key", server.URL())
	client.SetPollInterval(5 * time.Millisecond)
	return NewProviderWithClient(client, "test-perplexity-id", testutil.NewMockCostService())
}

func TestRunQuestion(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()
	server.SetResults([]byte(testutil.SamplePerplexityResponse()))

	provider := testProvider(t, server)
	response, err := provider.RunQuestion(context.Background(), "Best CRM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(response.Response, "Acme") {
		t.Errorf("unexpected answer: %q", response.Response)
	}
	if response.InputTokens == 0 || response.OutputTokens == 0 {
		t.Errorf("expected estimated token counts, got %d/%d", response.InputTokens, response.OutputTokens)
	}
	if response.Cost != 0.0015 {
		t.Errorf("expected mock cost, got %f", response.Cost)
	}
}

func TestRunQuestionResultError(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()
	server.SetResults([]byte(testutil.SampleErrorResponse()))

	provider := testProvider(t, server)
	_, err := provider.RunQuestion(context.Background(), "Best CRM")
	if err == nil || !strings.Contains(err.Error(), "Request timeout") {
		t.Errorf("expected scrape error surfaced, got %v", err)
	}
}

func TestRunQuestionEmptyResults(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()
	// default snapshot body is an empty array

	provider := testProvider(t, server)
	_, err := provider.RunQuestion(context.Background(), "Best CRM")
	if err == nil || !strings.Contains(err.Error(), "no results") {
		t.Errorf("expected no-results error, got %v", err)
	}
}

func TestRunQuestionEmptyAnswer(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()
	server.SetResults([]byte(`[{"url": "https://www.perplexity.ai", "prompt": "Best CRM", "answer_text_markdown": "", "index": 1}]`))

	provider := testProvider(t, server)
	_, err := provider.RunQuestion(context.Background(), "Best CRM")
	if err == nil || !strings.Contains(err.Error(), "empty answer") {
		t.Errorf("expected empty-answer error, got %v", err)
	}
}

func TestRunQuestionJobFailure(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()
	server.SetStatus("failed")

	provider := testProvider(t, server)
	_, err := provider.RunQuestion(context.Background(), "Best CRM")
	if err == nil || !strings.Contains(err.Error(), "failed to poll") {
		t.Errorf("expected poll failure, got %v", err)
	}
}

func TestGetProviderName(t *testing.T) {
	server := testutil.NewMockBrightDataServer()
	defer server.Close()

	if name := testProvider(t, server).GetProviderName(); name != "perplexity" {
		t.Errorf("expected perplexity, got %s", name)
	}
}
