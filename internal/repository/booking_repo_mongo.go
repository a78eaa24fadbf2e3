package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	AggregateByPackage(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error)
}

type MongoBookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &MongoBookingRepository{collection: db.Collection("bookings")}
}

func (r *MongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	return err
}

func (r *MongoBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *MongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []domain.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *MongoBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// AggregateByPackage groups bookings whose booking_date falls in [start, end]
// by package, already sorted by revenue descending. Enrichment with catalog
// metadata happens in the service layer.
func (r *MongoBookingRepository) AggregateByPackage(ctx context.Context, start, end time.Time) ([]domain.ReportRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "booking_date", Value: bson.D{
				{Key: "$gte", Value: start},
				{Key: "$lte", Value: end},
			}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$package_id"},
			{Key: "total_bookings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_participants", Value: bson.D{{Key: "$sum", Value: "$participants"}}},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
			{Key: "avg_participants", Value: bson.D{{Key: "$avg", Value: "$participants"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_revenue", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "package_id", Value: "$_id"},
			{Key: "total_bookings", Value: 1},
			{Key: "total_participants", Value: 1},
			{Key: "total_revenue", Value: 1},
			{Key: "avg_participants", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []domain.ReportRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

var _ BookingRepository = (*MongoBookingRepository)(nil)
