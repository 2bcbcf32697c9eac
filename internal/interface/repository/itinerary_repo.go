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

// MongoItineraryRepository implements the ItineraryRepository interface
type MongoItineraryRepository struct {
	collection *mongo.Collection
}

// NewMongoItineraryRepository creates a new MongoDB itinerary repository
func NewMongoItineraryRepository(db *mongo.Database) repository.ItineraryRepository {
	collection := db.Collection("itineraries")

	// Create indexes for better performance
	ctx := context.Background()

	// Index on userId for per-user listings
	userIndex := mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	}

	// Compound index backing the due-itinerary sweep query
	dueIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "scheduledSubmissionDate", Value: 1},
		},
	}

	// Compound index backing the reminder window query
	windowIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "submissionWindowEnd", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		userIndex,
		dueIndex,
		windowIndex,
	})

	return &MongoItineraryRepository{
		collection: collection,
	}
}

// Save upserts an itinerary
func (r *MongoItineraryRepository) Save(ctx context.Context, itinerary *entity.Itinerary) error {
	itinerary.UpdatedAt = time.Now()

	if itinerary.ID == "" {
		itinerary.ID = primitive.NewObjectID().Hex()
		itinerary.CreatedAt = itinerary.UpdatedAt
		_, err := r.collection.InsertOne(ctx, itinerary)
		return err
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": itinerary.ID}, itinerary, opts)
	return err
}

// FindByID finds an itinerary by ID
func (r *MongoItineraryRepository) FindByID(ctx context.Context, id string) (*entity.Itinerary, error) {
	var itinerary entity.Itinerary
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&itinerary)
	if err != nil {
		return nil, err
	}
	return &itinerary, nil
}

// FindByUser finds all itineraries owned by a user, newest first
func (r *MongoItineraryRepository) FindByUser(ctx context.Context, userID uint) ([]*entity.Itinerary, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var itineraries []*entity.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}

	return itineraries, nil
}

// FindDue finds scheduled itineraries whose scheduled submission date
// has arrived
func (r *MongoItineraryRepository) FindDue(ctx context.Context, now time.Time) ([]*entity.Itinerary, error) {
	filter := bson.M{
		"status":                  entity.ItineraryScheduled,
		"scheduledSubmissionDate": bson.M{"$lte": now},
	}

	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Sort: bson.D{{Key: "scheduledSubmissionDate", Value: 1}}, // Oldest due first
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var itineraries []*entity.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}

	return itineraries, nil
}

// FindWindowClosing finds itineraries in the given status whose
// submission window ends inside [from, until]
func (r *MongoItineraryRepository) FindWindowClosing(ctx context.Context, status entity.ItineraryStatus, from, until time.Time) ([]*entity.Itinerary, error) {
	filter := bson.M{
		"status": status,
		"submissionWindowEnd": bson.M{
			"$gte": from,
			"$lte": until,
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var itineraries []*entity.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}

	return itineraries, nil
}

// UpdateStatus updates just the status, atomically on one document
func (r *MongoItineraryRepository) UpdateStatus(ctx context.Context, id string, status entity.ItineraryStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update itinerary status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no itinerary found with id: %s", id)
	}

	return nil
}

// Delete removes an itinerary
func (r *MongoItineraryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("no itinerary found with id: %s", id)
	}

	return nil
}
