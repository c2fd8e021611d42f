package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"burim-estate/internal/listing"
	"burim-estate/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey, index string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	if index == "" {
		index = "properties"
	}

	return &SearchClient{
		client: client,
		index:  index,
	}
}

// Document is the flattened listing stored in the index
type Document struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	District        string   `json:"district"`
	PropertyType    string   `json:"property_type"`
	TransactionType string   `json:"transaction_type"`
	Deposit         *int64   `json:"deposit,omitempty"`
	Rent            *int64   `json:"rent,omitempty"`
	SalePrice       *int64   `json:"sale_price,omitempty"`
	Area            float64  `json:"area"`
	RoomCount       *int     `json:"room_count,omitempty"`
	Direction       string   `json:"direction,omitempty"`
	LocationDesc    string   `json:"location_desc,omitempty"`
	Status          string   `json:"status"`
	IsFeatured      bool     `json:"is_featured"`
	CreatedAt       int64    `json:"created_at"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
}

// NewDocument flattens a listing for indexing
func NewDocument(p *models.Property) Document {
	return Document{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		District:        p.District,
		PropertyType:    p.PropertyType,
		TransactionType: string(p.TransactionType),
		Deposit:         p.Deposit,
		Rent:            p.Rent,
		SalePrice:       p.SalePrice,
		Area:            p.Area,
		RoomCount:       p.Options.RoomCount,
		Direction:       string(p.Options.Direction),
		LocationDesc:    p.LocationDesc,
		Status:          string(p.Status),
		IsFeatured:      p.IsFeatured,
		CreatedAt:       p.CreatedAt.Unix(),
		Lat:             p.Lat,
		Lng:             p.Lng,
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	if err != nil && !strings.Contains(err.Error(), "index_already_exists") {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"district",
		"property_type",
		"location_desc",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"status",
		"district",
		"property_type",
		"transaction_type",
		"deposit",
		"sale_price",
		"area",
		"room_count",
		"direction",
		"is_featured",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"is_featured",
		"created_at",
		"sale_price",
		"deposit",
		"area",
	})
	return err
}

// Healthy reports whether the server answers its health check
func (s *SearchClient) Healthy() bool {
	return s.client.IsHealthy()
}

// IndexProperty indexes a single property
func (s *SearchClient) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]Document{NewDocument(property)}, "id")
	return err
}

// IndexProperties replaces the index contents with properties
func (s *SearchClient) IndexProperties(properties []models.Property) error {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	if len(properties) == 0 {
		return nil
	}
	docs := make([]Document, len(properties))
	for i := range properties {
		docs[i] = NewDocument(&properties[i])
	}
	_, err := s.client.Index(s.index).AddDocuments(docs, "id")
	return err
}

// DeleteProperty removes a listing from the index
func (s *SearchClient) DeleteProperty(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// Search returns the ids of listings matching query and f, best match first
func (s *SearchClient) Search(query string, f listing.Filter) ([]string, int64, error) {
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	}
	if filter := BuildFilter(f); filter != "" {
		searchReq.Filter = filter
	}
	if query == "" {
		searchReq.Sort = []string{"is_featured:desc", "created_at:desc"}
	}

	searchRes, err := s.client.Index(s.index).Search(query, searchReq)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		// Convert hit to JSON then to Document
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc Document
		if err := json.Unmarshal(hitJSON, &doc); err != nil || doc.ID == "" {
			continue
		}
		ids = append(ids, doc.ID)
	}

	return ids, searchRes.EstimatedTotalHits, nil
}
