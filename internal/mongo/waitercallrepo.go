package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restoqr/restoqr/internal/waiter"
)

type WaiterCallRepo struct {
	collection *mongo.Collection
}

func NewWaiterCallRepo(db *mongo.Database) *WaiterCallRepo {
	return &WaiterCallRepo{
		collection: db.Collection("waiter_calls"),
	}
}

func (r *WaiterCallRepo) Create(ctx context.Context, call *waiter.WaiterCall) error {
	if call == nil {
		return fmt.Errorf("waiter call is nil")
	}

	if _, err := r.collection.InsertOne(ctx, call); err != nil {
		return fmt.Errorf("cannot create waiter call: %w", err)
	}

	return nil
}

func (r *WaiterCallRepo) Get(ctx context.Context, id uuid.UUID) (*waiter.WaiterCall, error) {
	var call waiter.WaiterCall
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&call)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get waiter call: %w", err)
	}
	return &call, nil
}

func (r *WaiterCallRepo) ListOpen(ctx context.Context, restaurantID uuid.UUID) ([]*waiter.WaiterCall, error) {
	return r.list(ctx, bson.M{"restaurant_id": restaurantID, "status": waiter.StatusOpen})
}

func (r *WaiterCallRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*waiter.WaiterCall, error) {
	return r.list(ctx, bson.M{"restaurant_id": restaurantID})
}

func (r *WaiterCallRepo) list(ctx context.Context, filter bson.M) ([]*waiter.WaiterCall, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list waiter calls: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*waiter.WaiterCall
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode waiter calls: %w", err)
	}

	return result, nil
}

func (r *WaiterCallRepo) Save(ctx context.Context, call *waiter.WaiterCall) error {
	if call == nil {
		return fmt.Errorf("waiter call is nil")
	}

	filter := bson.M{"_id": call.ID}
	update := bson.M{"$set": call}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update waiter call: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("waiter call not found")
	}

	return nil
}

func (r *WaiterCallRepo) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status":      waiter.StatusResolved,
		"resolved_at": bson.M{"$lt": cutoff},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("cannot delete resolved waiter calls: %w", err)
	}

	return result.DeletedCount, nil
}
