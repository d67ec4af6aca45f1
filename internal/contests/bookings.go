package contests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// wonText is the fixed annotation text stored on a winning booking.
const wonText = "you won"

func (r *Repository) CreateBooking(ctx context.Context, b Booking) (*Booking, error) {
	b.ID = primitive.NilObjectID
	b.Won = nil
	b.CreatedAt = time.Now().UTC()

	res, err := r.bookingsCol.InsertOne(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return &b, nil
}

func (r *Repository) ListBookingsByCreator(ctx context.Context, email string) ([]Booking, error) {
	return r.findBookings(ctx, bson.M{"creator": email})
}

func (r *Repository) ListBookingsByUser(ctx context.Context, email string) ([]Booking, error) {
	return r.findBookings(ctx, bson.M{"user.email": email})
}

func (r *Repository) ListWonBookings(ctx context.Context, email string) ([]Booking, error) {
	return r.findBookings(ctx, bson.M{"won.email": email})
}

// AnnotateWin marks a booking as won. Unlike AssignWinner there is no
// write-once guard: a later call overwrites the annotation.
func (r *Repository) AnnotateWin(ctx context.Context, id primitive.ObjectID, winner Identity) (*Booking, error) {
	won := WonAnnotation{
		Text:  wonText,
		Name:  winner.Name,
		Email: winner.Email,
		Image: winner.Image,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b Booking
	err := r.bookingsCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"won": won}}, opts).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("annotate win: %w", err)
	}
	return &b, nil
}

func (r *Repository) CountWins(ctx context.Context, email string) (int64, error) {
	count, err := r.bookingsCol.CountDocuments(ctx, bson.M{"won.email": email})
	if err != nil {
		return 0, fmt.Errorf("count wins: %w", err)
	}
	return count, nil
}

func (r *Repository) findBookings(ctx context.Context, filter bson.M) ([]Booking, error) {
	cur, err := r.bookingsCol.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	result := []Booking{}
	for cur.Next(ctx) {
		var b Booking
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		result = append(result, b)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("bookings cursor: %w", err)
	}
	return result, nil
}
