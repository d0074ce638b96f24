package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pdfqa/internal/app"
	"pdfqa/internal/bootstrap"
	"pdfqa/internal/config"
	"pdfqa/internal/model"
)

type emptyStore struct{}

func (emptyStore) Create(context.Context, *model.Document) error { return nil }

func (emptyStore) GetByID(context.Context, string) (*model.Document, error) { return nil, nil }

func (emptyStore) Ping(context.Context) error { return nil }

type nopExtractor struct{}

func (nopExtractor) ExtractText(io.Reader) (string, error) { return "", nil }

type nopGenerator struct{}

func (nopGenerator) Generate(context.Context, string) (string, error) { return "", nil }

func TestNewRouter_MountsRoutesAtRootAndAPI(t *testing.T) {
	store := emptyStore{}
	a := &bootstrap.App{
		Config: &config.Config{
			App: config.AppConfig{Name: "pdfqa", GinMode: "test", CORSOrigins: []string{"*"}},
		},
		Documents: app.NewDocumentService(store, nil, nil, nopExtractor{}, nopGenerator{}, app.DocumentServiceOptions{TempDir: t.TempDir()}),
		HealthChecks: map[string]func(ctx context.Context) error{
			"mongo": store.Ping,
		},
		StartedAt: time.Now(),
	}
	router := NewRouter(a)

	for _, prefix := range []string{"", "/api"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, prefix+"/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, prefix)
		assert.JSONEq(t, `{"message":"success"}`, rec.Body.String())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, prefix+"/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code, prefix)

		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, prefix+"/ask", bytes.NewBufferString(`{"docId":"ffffffffffffffffffffffff","question":"q"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, prefix)
	}
}
