package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is an uploaded PDF's extracted text. Records are written once and never updated.
type Document struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	Name      string    `gorm:"size:512;not null" json:"name"`
	Content   string    `gorm:"type:longtext" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDocumentID returns a 24-hex identifier. Every store backend uses the same format.
func NewDocumentID() string {
	return primitive.NewObjectID().Hex()
}
