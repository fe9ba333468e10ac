package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"discussify.com/api/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const communitiesIndex = "communities"

// CommunitySearcher indexes communities and resolves full-text queries to ids.
type CommunitySearcher interface {
	IndexCommunities(communities ...*entity.Community) error
	DeleteCommunity(id uuid.UUID) error
	SearchCommunities(query string, limit int64) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) CommunitySearcher {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"name", "description"}
	if _, err := s.client.Index(communitiesIndex).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("[search] failed to update communities searchable attributes: %v", err)
	}

	filterableAttrs := []string{"is_private"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(communitiesIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("[search] failed to update communities filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	if _, err := s.client.Index(communitiesIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("[search] failed to update communities sortable attributes: %v", err)
	}
}

type meiliCommunityDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
	CreatedAt   int64  `json:"created_at"`
}

// CleanText strips markup so only readable text is indexed.
func CleanText(sanitizer *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func newCommunityDoc(sanitizer *bluemonday.Policy, c *entity.Community) meiliCommunityDoc {
	return meiliCommunityDoc{
		ID:          c.ID.String(),
		Name:        CleanText(sanitizer, c.Name),
		Description: CleanText(sanitizer, c.Description),
		IsPrivate:   c.IsPrivate,
		CreatedAt:   c.CreatedAt.Unix(),
	}
}

func (s *meiliSearchService) IndexCommunities(communities ...*entity.Community) error {
	if len(communities) == 0 {
		return nil
	}

	docs := make([]meiliCommunityDoc, 0, len(communities))
	for _, c := range communities {
		docs = append(docs, newCommunityDoc(s.sanitizer, c))
	}

	task, err := s.client.Index(communitiesIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index %d communities: %w", len(docs), err)
	}
	log.Printf("[search] indexed %d communities, task id: %d", len(docs), task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteCommunity(id uuid.UUID) error {
	_, err := s.client.Index(communitiesIndex).DeleteDocument(id.String())
	return err
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

func (s *meiliSearchService) SearchCommunities(query string, limit int64) ([]uuid.UUID, error) {
	raw, err := s.client.Index(communitiesIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var result searchHits
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
