package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"

	"pdfqa/internal/model"
)

// DocumentRepository persists documents. GetByID returns nil, nil when nothing matches.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	Ping(ctx context.Context) error
}

type DocumentCache interface {
	GetDocument(ctx context.Context, id string) (*model.Document, bool, error)
	SetDocument(ctx context.Context, doc *model.Document) error
}

type DocumentEventPublisher interface {
	PublishUploaded(ctx context.Context, event model.DocumentUploadedEvent) error
}

type TextExtractor interface {
	ExtractText(r io.Reader) (string, error)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type DocumentServiceOptions struct {
	TempDir          string
	MaxUploadBytes   int64
	MaxDocumentChars int
	GenerateTimeout  time.Duration
}

type DocumentService struct {
	repo      DocumentRepository
	cache     DocumentCache
	publisher DocumentEventPublisher
	extractor TextExtractor
	generator TextGenerator
	opts      DocumentServiceOptions
}

// NewDocumentService wires the upload and ask flows. cache and publisher may be nil.
func NewDocumentService(
	repo DocumentRepository,
	cache DocumentCache,
	publisher DocumentEventPublisher,
	extractor TextExtractor,
	generator TextGenerator,
	opts DocumentServiceOptions,
) *DocumentService {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &DocumentService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		extractor: extractor,
		generator: generator,
		opts:      opts,
	}
}

type UploadInput struct {
	Filename string
	File     io.Reader
}

type AskInput struct {
	DocID    string
	Question string
}

// Upload stages the file on disk, extracts its text and stores a new document.
// The staged file is removed on every return path.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (*model.Document, error) {
	if input.File == nil {
		return nil, ErrNoFile
	}

	staged, err := s.stage(input.File)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = staged.Close()
		if rmErr := os.Remove(staged.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("path", staged.Name()).Msg("remove staged upload failed")
		}
	}()

	if _, err := staged.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind staged upload failed: %w", err)
	}
	content, err := s.extractor.ExtractText(staged)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text failed: %w", err)
	}

	doc := &model.Document{
		ID:        model.NewDocumentID(),
		Name:      input.Filename,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	log.Info().Str("doc_id", doc.ID).Str("name", doc.Name).Int("content_length", len(doc.Content)).Msg("document uploaded")

	// A delivered event leaves the cache fill to the consumer; otherwise fill it here.
	if !s.publishUploaded(ctx, doc) && s.cache != nil {
		if err := s.cache.SetDocument(ctx, doc); err != nil {
			log.Warn().Err(err).Str("doc_id", doc.ID).Msg("cache uploaded document failed")
		}
	}
	return doc, nil
}

func (s *DocumentService) publishUploaded(ctx context.Context, doc *model.Document) bool {
	if s.publisher == nil {
		return false
	}
	event := model.DocumentUploadedEvent{
		DocID:         doc.ID,
		Name:          doc.Name,
		ContentLength: len(doc.Content),
		UploadedAt:    doc.CreatedAt,
	}
	if err := s.publisher.PublishUploaded(ctx, event); err != nil {
		log.Warn().Err(err).Str("doc_id", doc.ID).Msg("publish upload event failed")
		return false
	}
	return true
}

func (s *DocumentService) stage(src io.Reader) (*os.File, error) {
	if err := os.MkdirAll(s.opts.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	f, err := os.CreateTemp(s.opts.TempDir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create staged upload failed: %w", err)
	}

	reader := src
	if s.opts.MaxUploadBytes > 0 {
		reader = io.LimitReader(src, s.opts.MaxUploadBytes+1)
	}
	written, err := io.Copy(f, reader)
	if err == nil && s.opts.MaxUploadBytes > 0 && written > s.opts.MaxUploadBytes {
		err = ErrFileTooLarge
	} else if err != nil {
		err = fmt.Errorf("write staged upload failed: %w", err)
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// Ask answers a question against one stored document. The answer is returned verbatim.
func (s *DocumentService) Ask(ctx context.Context, input AskInput) (string, error) {
	docID := strings.TrimSpace(input.DocID)
	if docID == "" {
		return "", ErrInvalidInput
	}

	doc, err := s.load(ctx, docID)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(input.Question, doc.Content, s.opts.MaxDocumentChars)

	genCtx := ctx
	if s.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.GenerateTimeout)
		defer cancel()
	}
	started := time.Now()
	answer, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		log.Error().Err(err).Str("doc_id", docID).Dur("elapsed", time.Since(started)).Msg("generate answer failed")
		return "", fmt.Errorf("generate answer failed: %w", err)
	}
	log.Info().Str("doc_id", docID).Dur("elapsed", time.Since(started)).Msg("question answered")
	return answer, nil
}

// GetDocument returns the stored document, consulting the cache first.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.load(ctx, id)
}

func (s *DocumentService) load(ctx context.Context, id string) (*model.Document, error) {
	if s.cache != nil {
		doc, ok, err := s.cache.GetDocument(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("doc_id", id).Msg("read document cache failed")
		} else if ok {
			return doc, nil
		}
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetDocument(ctx, doc); err != nil {
			log.Warn().Err(err).Str("doc_id", id).Msg("fill document cache failed")
		}
	}
	return doc, nil
}

// Ping checks the document store.
func (s *DocumentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
