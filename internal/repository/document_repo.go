package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"caseintake/internal/model"
)

// DocumentRepo persists generated business case documents
type DocumentRepo interface {
	Create(ctx context.Context, doc *model.GeneratedDocument) error
	GetByID(ctx context.Context, id string) (*model.GeneratedDocument, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*model.GeneratedDocument, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

// NewDocumentRepo creates a new document repository
func NewDocumentRepo(db *mongo.Database) DocumentRepo {
	return &documentRepo{
		collection: db.Collection("documents"),
	}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.GeneratedDocument) error {
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*model.GeneratedDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var doc model.GeneratedDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) GetBySessionID(ctx context.Context, sessionID string) ([]*model.GeneratedDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*model.GeneratedDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
