package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/AI-Template-SDK/senso-competitive/internal/providers/common"
	"github.com/AI-Template-SDK/senso-competitive/services"
)

// MockCostService is a mock implementation of CostService for testing
type MockCostService struct {
	CalculateCostFunc func(provider, model string, inputTokens, outputTokens int, websearch bool) float64
}

func (m *MockCostService) CalculateCost(provider, model string, inputTokens, outputTokens int, websearch bool) float64 {
	if m.CalculateCostFunc != nil {
		return m.CalculateCostFunc(provider, model, inputTokens, outputTokens, websearch)
	}
	return 0.0015 // Default mock cost
}

// NewMockCostService creates a new mock cost service
func NewMockCostService() *MockCostService {
	return &MockCostService{}
}

// MockAIProvider is a scripted AIProvider for testing
type MockAIProvider struct {
	Name            string
	RunQuestionFunc func(ctx context.Context, prompt string) (*services.AIResponse, error)
	Calls           []string
}

func (m *MockAIProvider) GetProviderName() string {
	return m.Name
}

func (m *MockAIProvider) RunQuestion(ctx context.Context, prompt string) (*services.AIResponse, error) {
	m.Calls = append(m.Calls, prompt)
	if m.RunQuestionFunc != nil {
		return m.RunQuestionFunc(ctx, prompt)
	}
	return &services.AIResponse{Response: "mock answer"}, nil
}

// MockProviderFactory returns the same provider for every model
type MockProviderFactory struct {
	Providers map[string]services.AIProvider
}

func (f *MockProviderFactory) GetProvider(model string) (services.AIProvider, error) {
	if provider, ok := f.Providers[model]; ok {
		return provider, nil
	}
	return &MockAIProvider{Name: model}, nil
}

// MockBrightDataServer creates a mock HTTP server for the BrightData API
type MockBrightDataServer struct {
	Server     *httptest.Server
	SnapshotID string
	Status     string
	Results    []byte
}

// NewMockBrightDataServer creates a new mock BrightData server
func NewMockBrightDataServer() *MockBrightDataServer {
	mock := &MockBrightDataServer{
		SnapshotID: "test-snapshot-123",
		Status:     "ready",
	}

	mux := http.NewServeMux()

	// POST /trigger - Submit job
	mux.HandleFunc("/trigger", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		response := common.TriggerResponse{
			SnapshotID: mock.SnapshotID,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	// GET /progress/:snapshot_id - Check progress
	mux.HandleFunc("/progress/", func(w http.ResponseWriter, r *http.Request) {
		response := common.ProgressResponse{
			Status:     mock.Status,
			SnapshotID: mock.SnapshotID,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	// GET /snapshot/:snapshot_id - Get results
	mux.HandleFunc("/snapshot/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if mock.Results != nil {
			w.Write(mock.Results)
		} else {
			w.Write([]byte("[]"))
		}
	})

	mock.Server = httptest.NewServer(mux)
	return mock
}

// URL returns the mock server's base URL for client injection
func (m *MockBrightDataServer) URL() string {
	return m.Server.URL
}

// Close closes the mock server
func (m *MockBrightDataServer) Close() {
	m.Server.Close()
}

// SetStatus sets the mock job status
func (m *MockBrightDataServer) SetStatus(status string) {
	m.Status = status
}

// SetResults sets the mock results response
func (m *MockBrightDataServer) SetResults(results []byte) {
	m.Results = results
}
