// Package client talks to the PDF question answering API and tracks a single conversation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s: %s", e.StatusCode, msg, e.Detail)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, msg)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL, e.g. http://localhost:3001/api. A nil httpClient gets a 2 minute timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type uploadResponse struct {
	Message string `json:"message"`
	DocID   string `json:"docId"`
}

type askRequest struct {
	DocID    string `json:"docId"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// Upload sends r as the "pdf" multipart field and returns the new document id.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("pdf", filename)
	if err != nil {
		return "", fmt.Errorf("create form file failed: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload failed: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request failed: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.DocID == "" {
		return "", fmt.Errorf("upload response missing docId")
	}
	return out.DocID, nil
}

func (c *Client) Ask(ctx context.Context, docID, question string) (string, error) {
	payload, err := json.Marshal(askRequest{DocID: docID, Question: question})
	if err != nil {
		return "", fmt.Errorf("marshal ask request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ask request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out askResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// decodeAPIError accepts {message, error} where error may be a string or an object.
func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}
	apiErr.Message = body.Message
	if len(body.Error) > 0 {
		var detail string
		if err := json.Unmarshal(body.Error, &detail); err == nil {
			apiErr.Detail = detail
		} else if string(body.Error) != "null" {
			apiErr.Detail = string(body.Error)
		}
	}
	return apiErr
}
