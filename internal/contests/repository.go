package contests

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound              = errors.New("document not found")
	ErrWinnerAlreadyAssigned = errors.New("winner already declared for this contest")
	ErrInvalidStatus         = errors.New("invalid contest status")
)

// Pagination bounds for the approved-contest listing.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Repository struct {
	db          *mongo.Database
	usersCol    *mongo.Collection
	contestsCol *mongo.Collection
	bookingsCol *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		db:          db,
		usersCol:    db.Collection("users"),
		contestsCol: db.Collection("contests"),
		bookingsCol: db.Collection("bookings"),
	}
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.usersCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("users_email_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = r.contestsCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("contests_status"),
		},
		{
			Keys:    bson.D{{Key: "participantsCount", Value: -1}},
			Options: options.Index().SetName("contests_participants"),
		},
		{
			Keys:    bson.D{{Key: "creator.email", Value: 1}},
			Options: options.Index().SetName("contests_creator_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("contests indexes: %w", err)
	}

	_, err = r.bookingsCol.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user.email", Value: 1}},
			Options: options.Index().SetName("bookings_user_email"),
		},
		{
			Keys:    bson.D{{Key: "won.email", Value: 1}},
			Options: options.Index().SetName("bookings_won_email"),
		},
		{
			Keys:    bson.D{{Key: "creator", Value: 1}},
			Options: options.Index().SetName("bookings_creator"),
		},
	})
	if err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}

func (r *Repository) CreateContest(ctx context.Context, c Contest) (*Contest, error) {
	c.ID = primitive.NilObjectID
	if c.Status == "" {
		c.Status = StatusPending
	}
	if !ValidStatus(c.Status) {
		return nil, ErrInvalidStatus
	}
	c.ParticipantsCount = 0
	c.Winner = nil
	c.CreatedAt = time.Now().UTC()

	res, err := r.contestsCol.InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("insert contest: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return &c, nil
}

func (r *Repository) ListContests(ctx context.Context) ([]Contest, error) {
	cur, err := r.contestsCol.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	return decodeContests(ctx, cur)
}

// ListApproved returns accepted contests sorted by _id so consecutive pages
// are disjoint over a stable underlying set.
func (r *Repository) ListApproved(ctx context.Context, page, size int64) ([]Contest, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(page * size).
		SetLimit(size)
	cur, err := r.contestsCol.Find(ctx, bson.M{"status": StatusAccepted}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list approved contests: %w", err)
	}
	return decodeContests(ctx, cur)
}

// SearchContests matches contest names case-insensitively. The term is
// escaped so regex metacharacters match literally.
func (r *Repository) SearchContests(ctx context.Context, term string) ([]Contest, error) {
	filter := bson.M{"contestname": bson.M{
		"$regex":   regexp.QuoteMeta(term),
		"$options": "i",
	}}
	cur, err := r.contestsCol.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search contests: %w", err)
	}
	return decodeContests(ctx, cur)
}

func (r *Repository) CountContests(ctx context.Context) (int64, error) {
	count, err := r.contestsCol.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count contests: %w", err)
	}
	return count, nil
}

func (r *Repository) GetContest(ctx context.Context, id primitive.ObjectID) (*Contest, error) {
	var c Contest
	if err := r.contestsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contest: %w", err)
	}
	return &c, nil
}

func (r *Repository) ListByCreator(ctx context.Context, email string) ([]Contest, error) {
	cur, err := r.contestsCol.Find(ctx, bson.M{"creator.email": email})
	if err != nil {
		return nil, fmt.Errorf("list contests by creator: %w", err)
	}
	return decodeContests(ctx, cur)
}

// UpdateContest applies a partial $set with upsert semantics: a missing id
// creates a new document under that id.
func (r *Repository) UpdateContest(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Contest, error) {
	delete(fields, "_id")
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c Contest
	err := r.contestsCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("update contest: %w", err)
	}
	return &c, nil
}

// SetStatus transitions a contest between the enumerated statuses.
func (r *Repository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*Contest, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c Contest
	err := r.contestsCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set contest status: %w", err)
	}
	return &c, nil
}

// RecordAttempt increments the participant counter. Calling it k times
// counts k; dedup against a user's prior entry is the caller's concern.
func (r *Repository) RecordAttempt(ctx context.Context, id primitive.ObjectID) (*Contest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c Contest
	err := r.contestsCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"participantsCount": 1}}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("record attempt: %w", err)
	}
	return &c, nil
}

// AssignWinner sets the contest winner with a single conditional update so
// that of any number of concurrent calls exactly one can succeed. The filter
// only matches while no winner exists; a zero match is disambiguated with a
// follow-up read.
func (r *Repository) AssignWinner(ctx context.Context, id primitive.ObjectID, winner Identity) (*Contest, error) {
	filter := bson.M{
		"_id":    id,
		"winner": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"winner": winner}}

	res, err := r.contestsCol.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("assign winner: %w", err)
	}

	if res.MatchedCount == 0 {
		var c Contest
		if err := r.contestsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("post-check get contest: %w", err)
		}
		return nil, ErrWinnerAlreadyAssigned
	}

	return r.GetContest(ctx, id)
}

// PopularContests returns the top contests by participant count, projected
// down to the landing-page fields.
func (r *Repository) PopularContests(ctx context.Context, limit int64) ([]PopularContest, error) {
	if limit <= 0 {
		limit = 5
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "participantsCount", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{
			"_id":               1,
			"contestname":       1,
			"image":             1,
			"participantsCount": 1,
			"description":       1,
			"winner":            1,
		})
	cur, err := r.contestsCol.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("popular contests: %w", err)
	}
	defer cur.Close(ctx)

	result := []PopularContest{}
	for cur.Next(ctx) {
		var p PopularContest
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode popular contest: %w", err)
		}
		result = append(result, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("popular contests cursor: %w", err)
	}
	return result, nil
}

// TopCreators groups contests by creator email, keeping the first-seen
// name, image and contest details per group. Ties on the total are broken
// by the group's earliest contest id, which tracks creation order.
func (r *Repository) TopCreators(ctx context.Context, limit int64) ([]CreatorSummary, error) {
	if limit <= 0 {
		limit = 3
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$creator.email"},
			{Key: "creatorName", Value: bson.D{{Key: "$first", Value: "$creator.name"}}},
			{Key: "creatorImage", Value: bson.D{{Key: "$first", Value: "$creator.image"}}},
			{Key: "contestName", Value: bson.D{{Key: "$first", Value: "$contestname"}}},
			{Key: "description", Value: bson.D{{Key: "$first", Value: "$description"}}},
			{Key: "totalContests", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "firstSeen", Value: bson.D{{Key: "$min", Value: "$_id"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalContests", Value: -1},
			{Key: "firstSeen", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "creatorEmail", Value: "$_id"},
			{Key: "creatorName", Value: 1},
			{Key: "creatorImage", Value: 1},
			{Key: "contestName", Value: 1},
			{Key: "description", Value: 1},
			{Key: "totalContests", Value: 1},
		}}},
	}

	cur, err := r.contestsCol.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("top creators: %w", err)
	}
	defer cur.Close(ctx)

	result := []CreatorSummary{}
	for cur.Next(ctx) {
		var s CreatorSummary
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode creator summary: %w", err)
		}
		result = append(result, s)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("top creators cursor: %w", err)
	}
	return result, nil
}

func (r *Repository) DeleteContest(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.contestsCol.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete contest: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeContests(ctx context.Context, cur *mongo.Cursor) ([]Contest, error) {
	defer cur.Close(ctx)

	result := []Contest{}
	for cur.Next(ctx) {
		var c Contest
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode contest: %w", err)
		}
		result = append(result, c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("contests cursor: %w", err)
	}
	return result, nil
}
