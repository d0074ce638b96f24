package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"pdfqa/internal/model"
)

type memoryRepo struct {
	mu        sync.Mutex
	docs      map[string]*model.Document
	createErr error
	getErr    error
	gets      int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{docs: map[string]*model.Document{}}
}

func (r *memoryRepo) Create(_ context.Context, doc *model.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (r *memoryRepo) Ping(context.Context) error { return nil }

type memoryCache struct {
	docs   map[string]*model.Document
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{docs: map[string]*model.Document{}}
}

func (c *memoryCache) GetDocument(_ context.Context, id string) (*model.Document, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	doc, ok := c.docs[id]
	return doc, ok, nil
}

func (c *memoryCache) SetDocument(_ context.Context, doc *model.Document) error {
	c.docs[doc.ID] = doc
	return nil
}

type recordingPublisher struct {
	events []model.DocumentUploadedEvent
	err    error
}

func (p *recordingPublisher) PublishUploaded(_ context.Context, event model.DocumentUploadedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

// textExtractor returns the raw bytes as text so tests can control document content.
type textExtractor struct {
	err  error
	seen []byte
}

func (e *textExtractor) ExtractText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	e.seen = b
	if e.err != nil {
		return "", e.err
	}
	return string(b), nil
}

type scriptedGenerator struct {
	answer  string
	err     error
	prompts []string
	ctxErr  error
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if deadline, ok := ctx.Deadline(); ok && !deadline.IsZero() {
		<-ctx.Done()
		g.ctxErr = ctx.Err()
		return "", ctx.Err()
	}
	return g.answer, g.err
}

var errBoom = errors.New("boom")
