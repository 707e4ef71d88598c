// services/content_index_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	qdrantCollection    = "competitor_content"
	typesenseCollection = "competitor_pages"
	embeddingModel      = "text-embedding-ada-002"
)

// EmbeddingProvider creates embedding vectors for text chunks
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, inputs []string, model string) ([][]float32, error)
}

type contentIndexService struct {
	qdrantClient    *qdrant.Client
	typesenseClient *typesense.Client
	embedder        EmbeddingProvider
}

// NewContentIndexService indexes competitor page content for the keyword and
// semantic lookups the teardown stage draws on
func NewContentIndexService(qdrantClient *qdrant.Client, typesenseClient *typesense.Client, embedder EmbeddingProvider) ContentIndexService {
	return &contentIndexService{
		qdrantClient:    qdrantClient,
		typesenseClient: typesenseClient,
		embedder:        embedder,
	}
}

// EnsureCollections creates the Qdrant and Typesense collections when missing
func (s *contentIndexService) EnsureCollections(ctx context.Context) error {
	err := s.qdrantClient.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: qdrantCollection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     1536,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create Qdrant collection: %w", err)
	}

	facet := true
	schema := &api.CollectionSchema{
		Name: typesenseCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "competitor", Type: "string", Facet: &facet},
			{Name: "content", Type: "string"},
			{Name: "page_title", Type: "string"},
			{Name: "source_url", Type: "string", Facet: &facet},
		},
	}
	_, err = s.typesenseClient.Collections().Create(ctx, schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("failed to create Typesense collection: %w", err)
	}
	return nil
}

// IndexCompetitorContent chunks the pages, embeds each chunk and upserts them
// into both stores
func (s *contentIndexService) IndexCompetitorContent(ctx context.Context, competitor string, pages []CompetitorPage) error {
	fmt.Printf("[IndexCompetitorContent] Indexing %d pages for competitor: %s\n", len(pages), competitor)

	var chunks []string
	var chunkPages []CompetitorPage
	for _, page := range pages {
		for _, chunk := range chunkByHeadings(page.Content) {
			chunks = append(chunks, chunk)
			chunkPages = append(chunkPages, page)
		}
	}
	if len(chunks) == 0 {
		fmt.Printf("[IndexCompetitorContent] No content to index for %s\n", competitor)
		return nil
	}

	vectors, err := s.embedder.CreateEmbedding(ctx, chunks, embeddingModel)
	if err != nil {
		return fmt.Errorf("failed to embed competitor content: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"competitor": competitor,
				"text":       chunk,
				"source_url": chunkPages[i].URL,
				"page_title": chunkPages[i].Title,
			}),
		}
		docs[i] = map[string]interface{}{
			"id":         id,
			"competitor": competitor,
			"content":    chunk,
			"page_title": chunkPages[i].Title,
			"source_url": chunkPages[i].URL,
		}
	}

	waitUpsert := true
	if _, err := s.qdrantClient.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: qdrantCollection,
		Points:         points,
		Wait:           &waitUpsert,
	}); err != nil {
		return fmt.Errorf("failed to upsert into Qdrant: %w", err)
	}

	action := "upsert"
	if _, err := s.typesenseClient.Collection(typesenseCollection).Documents().Import(ctx, docs, &api.ImportDocumentsParams{Action: &action}); err != nil {
		return fmt.Errorf("failed to import into Typesense: %w", err)
	}

	fmt.Printf("[IndexCompetitorContent] ✅ Indexed %d chunks for %s\n", len(chunks), competitor)
	return nil
}

// KeywordPresent checks the keyword against the competitor's indexed content
func (s *contentIndexService) KeywordPresent(ctx context.Context, competitor, keyword string) (bool, error) {
	result, err := s.typesenseClient.Collection(typesenseCollection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:        pointer.String(keyword),
		QueryBy:  pointer.String("content,page_title"),
		FilterBy: pointer.String(fmt.Sprintf("competitor:=%s", competitor)),
		PerPage:  pointer.Int(1),
	})
	if err != nil {
		return false, fmt.Errorf("failed to search competitor content: %w", err)
	}
	return result.Found != nil && *result.Found > 0, nil
}

// chunkByHeadings splits page text on markdown headings, with a character
// cap so no chunk exceeds the embedding token limit
func chunkByHeadings(text string) []string {
	const maxChunkSize = 8000

	var sections []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && current.Len() > 0 {
			sections = append(sections, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if strings.TrimSpace(current.String()) != "" {
		sections = append(sections, strings.TrimSpace(current.String()))
	}

	var chunks []string
	for _, section := range sections {
		if len(section) <= maxChunkSize {
			chunks = append(chunks, section)
			continue
		}
		for i := 0; i < len(section); i += maxChunkSize {
			end := i + maxChunkSize
			if end > len(section) {
				end = len(section)
			}
			chunks = append(chunks, section[i:end])
		}
	}
	return chunks
}
