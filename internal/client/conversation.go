package client

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrBusy          = errors.New("another request is in progress")
	ErrNoDocument    = errors.New("no document uploaded")
	ErrEmptyQuestion = errors.New("question is empty")
	ErrNotPDF        = errors.New("only .pdf files can be uploaded")
)

type State int

const (
	StateIdle State = iota
	StateUploading
	StateReady
	StateAsking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateReady:
		return "ready"
	case StateAsking:
		return "asking"
	default:
		return "unknown"
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Message struct {
	Role    Role
	Content string
}

// Backend is the subset of Client a Conversation needs.
type Backend interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Ask(ctx context.Context, docID, question string) (string, error)
}

// Conversation tracks one document and the messages exchanged about it.
// Only one upload or ask may be in flight at a time.
type Conversation struct {
	backend Backend

	mu       sync.Mutex
	state    State
	docID    string
	docName  string
	messages []Message
}

func NewConversation(backend Backend) *Conversation {
	return &Conversation{backend: backend}
}

// Upload replaces the current document. On failure the previous document, if any, stays active.
func (c *Conversation) Upload(ctx context.Context, filename string, r io.Reader) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ErrNotPDF
	}

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return ErrBusy
	}
	previous := c.state
	c.state = StateUploading
	c.mu.Unlock()

	docID, err := c.backend.Upload(ctx, filepath.Base(filename), r)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = previous
		c.messages = append(c.messages, Message{Role: RoleSystem, Content: "Error uploading PDF: " + err.Error()})
		return err
	}
	c.docID = docID
	c.docName = filepath.Base(filename)
	c.state = StateReady
	c.messages = append(c.messages, Message{Role: RoleSystem, Content: "PDF uploaded successfully: " + c.docName})
	return nil
}

// Ask appends the question immediately, then the answer or an error message.
func (c *Conversation) Ask(ctx context.Context, question string) (string, error) {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return "", ErrBusy
	}
	if c.docID == "" {
		c.mu.Unlock()
		return "", ErrNoDocument
	}
	if strings.TrimSpace(question) == "" {
		c.mu.Unlock()
		return "", ErrEmptyQuestion
	}
	docID := c.docID
	c.state = StateAsking
	c.messages = append(c.messages, Message{Role: RoleUser, Content: question})
	c.mu.Unlock()

	answer, err := c.backend.Ask(ctx, docID, question)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady
	if err != nil {
		c.messages = append(c.messages, Message{Role: RoleSystem, Content: "Error processing question: " + err.Error()})
		return "", err
	}
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: answer})
	return answer, nil
}

func (c *Conversation) busyLocked() bool {
	return c.state == StateUploading || c.state == StateAsking
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) DocID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docID
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
