package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pdfqa/internal/model"
)

// mongoDocument is the stored shape: ObjectID _id, name, content.
type mongoDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
}

type MongoDocumentRepository struct {
	collection *mongo.Collection
}

func NewMongoDocumentRepository(collection *mongo.Collection) *MongoDocumentRepository {
	return &MongoDocumentRepository{collection: collection}
}

func (r *MongoDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = model.NewDocumentID()
	}
	oid, err := primitive.ObjectIDFromHex(doc.ID)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %w", doc.ID, err)
	}
	record := mongoDocument{
		ID:        oid,
		Name:      doc.Name,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when no document matches, including ids that are not valid ObjectIDs.
func (r *MongoDocumentRepository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var record mongoDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &model.Document{
		ID:        record.ID.Hex(),
		Name:      record.Name,
		Content:   record.Content,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (r *MongoDocumentRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}
