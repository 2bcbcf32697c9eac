package repository

import (
	"context"
	"fmt"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubmissionRepository implements the SubmissionRepository interface
type MongoSubmissionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubmissionRepository creates a new MongoDB submission repository
func NewMongoSubmissionRepository(db *mongo.Database) repository.SubmissionRepository {
	collection := db.Collection("submissions")

	ctx := context.Background()

	// Compound index backing the paid-submission lookup per itinerary
	paidIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "itineraryId", Value: 1},
			{Key: "paymentStatus", Value: 1},
		},
	}

	// Index on userId for per-user listings
	userIndex := mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		paidIndex,
		userIndex,
	})

	return &MongoSubmissionRepository{
		collection: collection,
	}
}

// Save upserts a submission
func (r *MongoSubmissionRepository) Save(ctx context.Context, submission *entity.Submission) error {
	submission.UpdatedAt = time.Now()

	if submission.Status == "" {
		submission.Status = entity.SubmissionPending
	}
	if submission.PaymentStatus == "" {
		submission.PaymentStatus = entity.PaymentUnpaid
	}

	if submission.ID == "" {
		submission.ID = primitive.NewObjectID().Hex()
		submission.CreatedAt = submission.UpdatedAt
		_, err := r.collection.InsertOne(ctx, submission)
		return err
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": submission.ID}, submission, opts)
	return err
}

// FindByID finds a submission by ID
func (r *MongoSubmissionRepository) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	var submission entity.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByItinerary finds the submission for an itinerary, or nil when
// none exists
func (r *MongoSubmissionRepository) FindByItinerary(ctx context.Context, itineraryID string) (*entity.Submission, error) {
	var submission entity.Submission
	err := r.collection.FindOne(ctx, bson.M{"itineraryId": itineraryID}).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

// FindPaidByItinerary finds the paid submission for an itinerary, or
// nil when none exists
func (r *MongoSubmissionRepository) FindPaidByItinerary(ctx context.Context, itineraryID string) (*entity.Submission, error) {
	filter := bson.M{
		"itineraryId":   itineraryID,
		"paymentStatus": entity.PaymentPaid,
	}

	var submission entity.Submission
	err := r.collection.FindOne(ctx, filter).Decode(&submission)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &submission, nil
}

// UpdateStatus updates just the status, atomically on one document
func (r *MongoSubmissionRepository) UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no submission found with id: %s", id)
	}

	return nil
}

// UpdatePayment records the out-of-band payment outcome
func (r *MongoSubmissionRepository) UpdatePayment(ctx context.Context, id string, status entity.PaymentStatus, paymentID string) error {
	set := bson.M{
		"paymentStatus": status,
		"updatedAt":     time.Now(),
	}
	if paymentID != "" {
		set["paymentId"] = paymentID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no submission found with id: %s", id)
	}

	return nil
}

// MarkCompleted records the successful filing outcome in one write
func (r *MongoSubmissionRepository) MarkCompleted(ctx context.Context, id, confirmationNumber, notes string, submittedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":             entity.SubmissionCompleted,
			"confirmationNumber": confirmationNumber,
			"submissionDate":     submittedAt,
			"notes":              notes,
			"updatedAt":          time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark submission completed: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no submission found with id: %s", id)
	}

	return nil
}

// MarkFailed records the failed filing outcome in one write
func (r *MongoSubmissionRepository) MarkFailed(ctx context.Context, id, notes string) error {
	update := bson.M{
		"$set": bson.M{
			"status":    entity.SubmissionFailed,
			"notes":     notes,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no submission found with id: %s", id)
	}

	return nil
}

// SetNotificationFlag sets one idempotency flag to true. Flags are
// never reset.
func (r *MongoSubmissionRepository) SetNotificationFlag(ctx context.Context, id string, event entity.NotificationEvent) error {
	field := fmt.Sprintf("notificationsSent.%s", event)

	update := bson.M{
		"$set": bson.M{
			field:       true,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set notification flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no submission found with id: %s", id)
	}

	return nil
}

// DeleteByItinerary removes the submissions attached to an itinerary
func (r *MongoSubmissionRepository) DeleteByItinerary(ctx context.Context, itineraryID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"itineraryId": itineraryID})
	return err
}
