package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"caseintake/internal/model"
)

// SubmissionRepo persists completed interview submissions
type SubmissionRepo interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error)
	Update(ctx context.Context, submission *model.Submission) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, submission)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		submission.ID = oid.Hex()
	}
	return nil
}

func (r *submissionRepo) Update(ctx context.Context, submission *model.Submission) error {
	update := bson.M{"$set": bson.M{
		"documentId": submission.DocumentID,
		"quality":    submission.Quality,
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"sessionId": submission.SessionID}, update)
	return err
}

func (r *submissionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Submission, error) {
	var submission model.Submission
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}
