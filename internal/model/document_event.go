package model

import "time"

const DocumentUploadedEventType = "document.uploaded"

// DocumentUploadedEvent is published after a document has been stored.
type DocumentUploadedEvent struct {
	DocID         string    `json:"doc_id"`
	Name          string    `json:"name"`
	ContentLength int       `json:"content_length"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
