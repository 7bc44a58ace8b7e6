package bookings

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

type Repository struct {
	col *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	r := &Repository{col: db.Collection("bookings")}
	if err := r.EnsureIndexes(context.Background()); err != nil {
		log.Printf("[warn] bookings EnsureIndexes: %v", err)
	}
	return r
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("bookings_event"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("bookings_user"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("bookings_status"),
		},
		{
			Keys:    bson.D{{Key: "requested_date", Value: 1}},
			Options: options.Index().SetName("bookings_requested_date"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("bookings_created_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.BookingDate.IsZero() {
		b.BookingDate = now
	}
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repository) Get(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	var b Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// ListFilter narrows and orders a booking listing.
type ListFilter struct {
	UserID   *primitive.ObjectID
	Status   Status
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

var bookingSortFields = map[string]string{
	"createdAt":     "created_at",
	"requestedDate": "requested_date",
	"status":        "status",
}

func (f ListFilter) query() bson.M {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DateFrom != nil || f.DateTo != nil {
		dateRange := bson.M{}
		if f.DateFrom != nil {
			dateRange["$gte"] = *f.DateFrom
		}
		if f.DateTo != nil {
			dateRange["$lte"] = *f.DateTo
		}
		filter["requested_date"] = dateRange
	}
	if f.Search != "" {
		regex := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"event_name": regex},
			bson.M{"email": regex},
			bson.M{"event_location": regex},
		}
	}
	return filter
}

// List returns one page of bookings plus the total match count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	filter := f.query()

	sortField, ok := bookingSortFields[f.SortBy]
	if !ok {
		sortField = "created_at"
	}
	order := -1
	if !f.SortDesc && f.SortBy != "" {
		order = 1
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
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var result []Booking
	if err := cur.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decode bookings: %w", err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}
	return result, total, nil
}

// UpdateFields applies a partial update and returns the new document.
func (r *Repository) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Booking, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b Booking
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return &b, nil
}

// CountActiveForEvent counts pending and confirmed bookings against an
// event. Used as the delete guard on events.
func (r *Repository) CountActiveForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{
		"event_id": eventID,
		"status":   bson.M{"$in": bson.A{StatusPending, StatusConfirmed}},
	})
	if err != nil {
		return 0, fmt.Errorf("count active bookings: %w", err)
	}
	return n, nil
}

// StatusCounts groups bookings by status, summing counts and fee amounts.
// Pass a nil userID to aggregate across all users.
func (r *Repository) StatusCounts(ctx context.Context, userID *primitive.ObjectID) ([]StatusCount, error) {
	pipeline := mongo.Pipeline{}
	if userID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"user_id": *userID}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":          "$status",
		"count":        bson.M{"$sum": 1},
		"total_amount": bson.M{"$sum": "$fees.amount"},
	}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts: %w", err)
	}
	defer cur.Close(ctx)

	var rows []StatusCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode status counts: %w", err)
	}
	return rows, nil
}

// RevenueSeries buckets confirmed and completed bookings created inside
// [from, to] by calendar period. Daily granularity adds a day component.
func (r *Repository) RevenueSeries(ctx context.Context, from, to time.Time, daily bool) ([]PeriodRevenue, error) {
	groupID := bson.M{
		"year":  bson.M{"$year": "$created_at"},
		"month": bson.M{"$month": "$created_at"},
	}
	sort := bson.D{
		{Key: "_id.year", Value: 1},
		{Key: "_id.month", Value: 1},
	}
	if daily {
		groupID["day"] = bson.M{"$dayOfMonth": "$created_at"}
		sort = append(sort, bson.E{Key: "_id.day", Value: 1})
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": from, "$lte": to},
			"status":     bson.M{"$in": bson.A{StatusConfirmed, StatusCompleted}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      groupID,
			"revenue":  bson.M{"$sum": "$fees.amount"},
			"bookings": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: sort}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue series: %w", err)
	}
	defer cur.Close(ctx)

	var series []PeriodRevenue
	if err := cur.All(ctx, &series); err != nil {
		return nil, fmt.Errorf("decode revenue series: %w", err)
	}
	return series, nil
}

// Recent returns the newest bookings, for the admin dashboard.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Booking, error) {
	if limit < 1 {
		limit = 10
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}
	defer cur.Close(ctx)

	var result []Booking
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode recent bookings: %w", err)
	}
	return result, nil
}
