package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/phuslu/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"pdfqa/internal/model"
)

var errDocumentMissing = errors.New("document missing from store")

type DocumentLoader interface {
	GetByID(ctx context.Context, id string) (*model.Document, error)
}

type DocumentCacher interface {
	SetDocument(ctx context.Context, doc *model.Document) error
}

// CacheWarmWorker consumes document.uploaded events and loads each document into the cache.
type CacheWarmWorker struct {
	conn      *amqp.Connection
	repo      DocumentLoader
	cache     DocumentCacher
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCacheWarmWorker(conn *amqp.Connection, repo DocumentLoader, cache DocumentCacher, queueName string) *CacheWarmWorker {
	return &CacheWarmWorker{
		conn:      conn,
		repo:      repo,
		cache:     cache,
		queueName: queueName,
	}
}

func (w *CacheWarmWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}
	if err := ch.Qos(8, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set worker qos failed: %w", err)
	}
	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.process(workerCtx, d.Body); err != nil {
					log.Warn().Err(err).Str("queue", w.queueName).Msg("cache warm failed")
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	log.Info().Str("queue", w.queueName).Msg("cache warm worker started")
	return nil
}

func (w *CacheWarmWorker) process(ctx context.Context, body []byte) error {
	var event model.DocumentUploadedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode upload event failed: %w", err)
	}
	if event.DocID == "" {
		return fmt.Errorf("upload event without doc_id")
	}

	doc, err := w.repo.GetByID(ctx, event.DocID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: %s", errDocumentMissing, event.DocID)
	}
	if err := w.cache.SetDocument(ctx, doc); err != nil {
		return err
	}
	log.Debug().Str("doc_id", doc.ID).Msg("document cache warmed")
	return nil
}

func (w *CacheWarmWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
