package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"caseintake/internal/model"
)

// DraftRepo persists draft snapshots keyed by session ID
type DraftRepo interface {
	Upsert(ctx context.Context, snapshot *model.DraftSnapshot) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.DraftSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type draftRepo struct {
	collection *mongo.Collection
}

// NewDraftRepo creates a new draft repository
func NewDraftRepo(db *mongo.Database) DraftRepo {
	return &draftRepo{
		collection: db.Collection("drafts"),
	}
}

func (r *draftRepo) Upsert(ctx context.Context, snapshot *model.DraftSnapshot) error {
	snapshot.LastSavedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": snapshot.SessionID}, snapshot, opts)
	return err
}

func (r *draftRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.DraftSnapshot, error) {
	var snapshot model.DraftSnapshot
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *draftRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	return err
}
