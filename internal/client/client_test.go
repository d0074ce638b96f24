package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		file, header, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "invoice.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"PDF uploaded and processed successfully","docId":"665f1c2b9d3e4a0012345678"}`))
	}))
	defer server.Close()

	c := New(server.URL+"/api/", nil)
	id, err := c.Upload(context.Background(), "invoice.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "665f1c2b9d3e4a0012345678", id)
}

func TestClient_Ask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		var req askRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc", req.DocID)
		assert.Equal(t, "What is the total due?", req.Question)
		_, _ = w.Write([]byte(`{"answer":"The total due is $42."}`))
	}))
	defer server.Close()

	answer, err := New(server.URL, server.Client()).Ask(context.Background(), "abc", "What is the total due?")
	require.NoError(t, err)
	assert.Equal(t, "The total due is $42.", answer)
}

func TestClient_APIErrors(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantDetail string
	}{
		{"not found", http.StatusNotFound, `{"message":"Document not found"}`, "Document not found", ""},
		{"string detail", http.StatusInternalServerError, `{"message":"Error processing question","error":"quota exceeded"}`, "Error processing question", "quota exceeded"},
		{"object detail", http.StatusInternalServerError, `{"message":"Error processing PDF","error":{}}`, "Error processing PDF", "{}"},
		{"plain text", http.StatusBadGateway, "bad gateway", "bad gateway", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := New(server.URL, nil).Ask(context.Background(), "abc", "q")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
			assert.Equal(t, tc.wantDetail, apiErr.Detail)
		})
	}
}

func TestClient_UploadMissingDocID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, nil).Upload(context.Background(), "a.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
