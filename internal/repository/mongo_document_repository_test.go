package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pdfqa/internal/model"
)

func TestMongoDocumentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns an object id", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		doc := &model.Document{Name: "invoice.pdf", Content: "Total due: $42"}
		require.NoError(t, repo.Create(context.Background(), doc))

		_, err := primitive.ObjectIDFromHex(doc.ID)
		assert.NoError(t, err)
	})

	mt.Run("create rejects a malformed id", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)

		err := repo.Create(context.Background(), &model.Document{ID: "not-hex", Name: "a.pdf"})
		assert.Error(t, err)
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &model.Document{Name: "a.pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create document failed")
	})

	mt.Run("get by id decodes the record", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)
		oid := primitive.NewObjectID()
		createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "invoice.pdf"},
			{Key: "content", Value: "Total due: $42"},
			{Key: "created_at", Value: createdAt},
		}))

		doc, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, oid.Hex(), doc.ID)
		assert.Equal(t, "invoice.pdf", doc.Name)
		assert.Equal(t, "Total due: $42", doc.Content)
		assert.True(t, createdAt.Equal(doc.CreatedAt))
	})

	mt.Run("get by id returns nil when missing", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		doc, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})

	mt.Run("get by id treats invalid hex as missing", func(mt *mtest.T) {
		repo := NewMongoDocumentRepository(mt.Coll)

		doc, err := repo.GetByID(context.Background(), "definitely-not-an-id")
		assert.NoError(t, err)
		assert.Nil(t, doc)
	})
}
