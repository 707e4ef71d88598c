// main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/chatgpt"
	"github.com/AI-Template-SDK/senso-competitive/services"
	"github.com/AI-Template-SDK/senso-competitive/workflows"
	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/qdrant/go-client/qdrant"
	"github.com/typesense/typesense-go/v2/typesense"
)

func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Database Host: %s", cfg.Database.Host)
	log.Printf("Database Name: %s", cfg.Database.Name)

	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARNING: OpenAI API key not loaded!")
	} else {
		log.Printf("OpenAI API key loaded (length: %d)", len(cfg.OpenAIAPIKey))
	}
	if cfg.AnthropicAPIKey == "" {
		log.Printf("WARNING: Anthropic API key not loaded!")
	} else {
		log.Printf("Anthropic API key loaded (length: %d)", len(cfg.AnthropicAPIKey))
	}

	ctx := context.Background()
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("Successfully connected to database")

	reportStore := services.NewReportStoreService(db)
	if err := reportStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	log.Printf("Report store initialized")

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Printf("Running in development mode - signing key verification disabled")
	}

	costService := services.NewCostService()
	factory := providers.NewFactory(cfg, costService)

	extractor := services.NewLLMExtractionService(cfg, costService)
	parser := services.NewMentionParserService(extractor)
	queryGenerator := services.NewQueryGeneratorService()
	winLoss := services.NewWinLossService()

	// The content index is optional: without Qdrant and Typesense the
	// teardown stage runs on the null probe's zero signals.
	var contentIndex services.ContentIndexService
	if cfg.Qdrant.Host != "" && cfg.Typesense.Host != "" {
		log.Println("Attempting to initialize Qdrant client...")
		qdrantClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.Qdrant.Host,
			Port: cfg.Qdrant.Port,
		})
		if err != nil {
			log.Printf("WARNING: Failed to create Qdrant client, content index disabled: %v", err)
		} else {
			typesenseClient := typesense.NewClient(
				typesense.WithServer(fmt.Sprintf("http://%s:%d", cfg.Typesense.Host, cfg.Typesense.Port)),
				typesense.WithAPIKey(cfg.Typesense.APIKey),
			)

			embedder := chatgpt.NewProvider(cfg, "gpt-4.1", costService)
			index := services.NewContentIndexService(qdrantClient, typesenseClient, embedder)
			if err := index.EnsureCollections(ctx); err != nil {
				log.Printf("WARNING: Failed to ensure index collections, content index disabled: %v", err)
			} else {
				contentIndex = index
				log.Println("Content index initialized (Qdrant + Typesense)")
			}
		}
	}

	signalAnalyzer := services.NewSignalAnalyzerService(services.NewNullContentSignalProbe(), contentIndex)
	gapAnalyzer := services.NewGapAnalyzerService()
	actionPlan := services.NewActionPlanService()

	analysisService := services.NewCompetitiveAnalysisService(
		queryGenerator, factory, parser, winLoss, signalAnalyzer, gapAnalyzer, actionPlan,
	)
	exportService := services.NewExportService()
	log.Printf("Analysis pipeline initialized")

	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "senso-competitive",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatalf("Failed to create Inngest client: %v", err)
	}

	log.Printf("Initializing CompetitiveProcessor workflow...")
	competitiveProcessor := workflows.NewCompetitiveProcessor(analysisService, reportStore, cfg)
	competitiveProcessor.SetClient(client)
	competitiveProcessor.ProcessAnalysis()
	log.Printf("All processors initialized and functions registered")

	h := client.Serve()
	mux := http.NewServeMux()
	mux.Handle("/api/inngest", h)

	// Root endpoint for ALB health check
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"service":"senso-competitive","status":"running"}`))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Trigger an analysis run for a posted brand config
	mux.HandleFunc("/analyses/trigger", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var event workflows.AnalysisRequestedEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(fmt.Sprintf(`{"error":"invalid brand config: %v"}`, err)))
			return
		}
		if event.BrandConfig.BrandName == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"brand_config.brand_name is required"}`))
			return
		}

		evt := inngestgo.Event{
			Name: "competitive/analysis.requested",
			Data: map[string]interface{}{
				"brand_config":             event.BrandConfig,
				"models":                   event.Models,
				"max_queries_per_category": event.MaxQueriesPerCategory,
			},
		}
		result, err := client.Send(r.Context(), evt)
		if err != nil {
			log.Printf("Failed to send analysis event: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"Failed to send event: %v"}`, err)))
			return
		}
		log.Printf("Analysis event sent for brand %s: %v", event.BrandConfig.BrandName, result)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(fmt.Sprintf(`{"status":"accepted","brand":"%s"}`, event.BrandConfig.BrandName)))
	})

	// List saved analyses
	mux.HandleFunc("/analyses", func(w http.ResponseWriter, r *http.Request) {
		summaries, err := reportStore.ListAnalyses(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"%v"}`, err)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	})

	// Export a saved analysis as JSON or Markdown
	mux.HandleFunc("/analyses/export", func(w http.ResponseWriter, r *http.Request) {
		brandID, err := parseBrandID(r.URL.Query().Get("brand_id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(fmt.Sprintf(`{"error":"%v"}`, err)))
			return
		}
		analysis, err := reportStore.GetAnalysis(r.Context(), brandID)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(fmt.Sprintf(`{"error":"%v"}`, err)))
			return
		}
		if r.URL.Query().Get("format") == "markdown" {
			w.Header().Set("Content-Type", "text/markdown")
			w.Write([]byte(exportService.ExportMarkdown(analysis)))
			return
		}
		data, err := exportService.ExportJSON(analysis)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"%v"}`, err)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	port := cfg.Port
	log.Printf("Starting Senso Competitive service on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func parseBrandID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("brand_id query parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid brand_id: %w", err)
	}
	return id, nil
}
