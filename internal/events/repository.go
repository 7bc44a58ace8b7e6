package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrCapacityFull = errors.New("event capacity reached")
)

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	r := &Repository{col: db.Collection("events")}
	if err := r.EnsureIndexes(context.Background()); err != nil {
		log.Printf("[warn] events EnsureIndexes: %v", err)
	}
	return r
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "schedule.start", Value: 1}},
			Options: options.Index().SetName("events_start"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("events_status"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("events_category"),
		},
		{
			Keys:    bson.D{{Key: "organizer_id", Value: 1}},
			Options: options.Index().SetName("events_organizer"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("events_tags"),
		},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, e *Event) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) Get(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	var e Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// ListFilter narrows and orders an event listing.
type ListFilter struct {
	Category   Category
	Status     Status
	Featured   *bool
	Search     string
	PublicOnly bool
	FutureOnly bool
	Page       int
	Limit      int
	SortBy     string
	SortDesc   bool
}

var eventSortFields = map[string]string{
	"start":     "schedule.start",
	"createdAt": "created_at",
	"name":      "name",
	"basePrice": "pricing.base_price",
}

// List returns one page of events plus the total match count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Event, int64, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Featured != nil {
		filter["is_featured"] = *f.Featured
	}
	if f.PublicOnly {
		filter["is_public"] = true
		filter["status"] = StatusPublished
	}
	if f.FutureOnly {
		filter["schedule.start"] = bson.M{"$gte": time.Now().UTC()}
	}
	if f.Search != "" {
		regex := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"tags": regex},
			bson.M{"faculty": regex},
		}
	}

	sortField, ok := eventSortFields[f.SortBy]
	if !ok {
		sortField = "schedule.start"
	}
	order := 1
	if f.SortDesc {
		order = -1
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var result []Event
	if err := cur.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decode events: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return result, total, nil
}

// UpdateFields applies a partial update and returns the new document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Event, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e Event
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &e, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// StatusCount is one row of the per-status event aggregation.
type StatusCount struct {
	Status Status `bson:"_id"`
	Count  int    `bson:"count"`
}

// CountByStatus groups all events by publication status.
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate event statuses: %w", err)
	}
	defer cur.Close(ctx)

	var rows []StatusCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode event statuses: %w", err)
	}
	return rows, nil
}

// effectiveCapacityExpr resolves the booking cap inside an update filter:
// max_bookings when set, venue capacity otherwise.
var effectiveCapacityExpr = bson.M{
	"$cond": bson.A{
		bson.M{"$gt": bson.A{"$booking_settings.max_bookings", 0}},
		"$booking_settings.max_bookings",
		"$venue.capacity",
	},
}

// ReserveSlot atomically increments current_bookings, but only while the
// counter stays below effective capacity. Concurrent confirmations race on
// this single conditional update, so at most capacity of them can win.
func (r *Repository) ReserveSlot(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$lt": bson.A{"$booking_settings.current_bookings", effectiveCapacityExpr}},
	}
	update := bson.M{"$inc": bson.M{"booking_settings.current_bookings": 1}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	if res.MatchedCount == 0 {
		var e Event
		if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("post-check get event: %w", err)
		}
		return ErrCapacityFull
	}
	return nil
}

// ReleaseSlot decrements current_bookings, floored at zero by the filter.
// A missing or already-zero event is not an error for the caller.
func (r *Repository) ReleaseSlot(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":                               id,
		"booking_settings.current_bookings": bson.M{"$gt": 0},
	}
	update := bson.M{"$inc": bson.M{"booking_settings.current_bookings": -1}}
	if _, err := r.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	return nil
}
