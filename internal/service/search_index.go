package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	es "github.com/diwan-maarifa/diwan-backend/pkg/elasticsearch"
)

// DefaultContentIndex is the Elasticsearch index of published content
const DefaultContentIndex = "diwan-content"

// SearchIndex is the full-text index of published submissions
type SearchIndex interface {
	Index(ctx context.Context, s *domain.Submission) error
	Remove(ctx context.Context, id uint64) error
	Search(ctx context.Context, q string, page, limit int) ([]uint64, int64, error)
}

// ContentDocument is a published submission as stored in Elasticsearch
type ContentDocument struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	ContentType string   `json:"content_type"`
	CategoryID  uint64   `json:"category_id,omitempty"`
	AuthorID    uint64   `json:"author_id"`
	PublishedAt string   `json:"published_at,omitempty"`
}

type esSearchIndex struct {
	client *es.Client
	index  string
}

// NewSearchIndex creates the Elasticsearch-backed index and ensures its mapping
func NewSearchIndex(ctx context.Context, client *es.Client, index string) (SearchIndex, error) {
	if index == "" {
		index = DefaultContentIndex
	}
	idx := &esSearchIndex{client: client, index: index}
	if err := client.EnsureIndex(ctx, index, contentMapping()); err != nil {
		return nil, fmt.Errorf("create content index: %w", err)
	}
	return idx, nil
}

// contentMapping uses the built-in arabic analyzer for text fields
func contentMapping() map[string]interface{} {
	text := map[string]interface{}{"type": "text", "analyzer": "arabic"}
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":           map[string]interface{}{"type": "long"},
				"title":        text,
				"content":      text,
				"slug":         map[string]interface{}{"type": "keyword"},
				"tags":         map[string]interface{}{"type": "keyword"},
				"content_type": map[string]interface{}{"type": "keyword"},
				"category_id":  map[string]interface{}{"type": "long"},
				"author_id":    map[string]interface{}{"type": "long"},
				"published_at": map[string]interface{}{"type": "date"},
			},
		},
	}
}

func newContentDocument(s *domain.Submission) *ContentDocument {
	doc := &ContentDocument{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Content:     s.Content,
		Tags:        s.Tags,
		ContentType: string(s.ContentType),
		AuthorID:    s.AuthorID,
	}
	if s.CategoryID != nil {
		doc.CategoryID = *s.CategoryID
	}
	if s.PublishedAt != nil {
		doc.PublishedAt = s.PublishedAt.UTC().Format(time.RFC3339)
	}
	return doc
}

func (i *esSearchIndex) Index(ctx context.Context, s *domain.Submission) error {
	return i.client.IndexDocument(ctx, i.index, strconv.FormatUint(s.ID, 10), newContentDocument(s))
}

func (i *esSearchIndex) Remove(ctx context.Context, id uint64) error {
	return i.client.DeleteDocument(ctx, i.index, strconv.FormatUint(id, 10))
}

func (i *esSearchIndex) Search(ctx context.Context, q string, page, limit int) ([]uint64, int64, error) {
	resp, err := i.client.Search(ctx, i.index, searchQuery(q), (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint64, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		id, err := strconv.ParseUint(h.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, resp.Total, nil
}

// searchQuery ranks by relevance, newest first among equal scores
func searchQuery(q string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"title^3", "content", "tags^2"},
				"type":   "best_fields",
			},
		},
		"_source": false,
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"published_at": map[string]interface{}{"order": "desc"}},
		},
	}
}
