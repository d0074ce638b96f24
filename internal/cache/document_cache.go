package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"pdfqa/internal/model"
)

const defaultDocumentTTL = 24 * time.Hour

// DocumentCache keeps extracted document text in Redis so repeated questions skip the store.
type DocumentCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewDocumentCache(client *redisv9.Client, ttl time.Duration) *DocumentCache {
	if ttl <= 0 {
		ttl = defaultDocumentTTL
	}
	return &DocumentCache{client: client, ttl: ttl}
}

func (c *DocumentCache) GetDocument(ctx context.Context, id string) (*model.Document, bool, error) {
	raw, err := c.client.Get(ctx, c.documentKey(id)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get document failed: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached document failed: %w", err)
	}
	return &doc, true, nil
}

func (c *DocumentCache) SetDocument(ctx context.Context, doc *model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.documentKey(doc.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set document failed: %w", err)
	}
	return nil
}

func (c *DocumentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *DocumentCache) documentKey(id string) string {
	return fmt.Sprintf("pdfqa:document:%s", id)
}
