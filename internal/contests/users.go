package contests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertUser records a user keyed by email. An existing user is only
// overwritten when the incoming status requests the creator role;
// otherwise the stored document is returned untouched. New users are
// inserted with a creation timestamp and the default role.
func (r *Repository) UpsertUser(ctx context.Context, u User) (*User, error) {
	if u.Role == "" {
		u.Role = RoleDefault
	}
	if !ValidRole(u.Role) {
		return nil, fmt.Errorf("invalid role %q", u.Role)
	}

	query := bson.M{"email": u.Email}

	var existing User
	err := r.usersCol.FindOne(ctx, query).Decode(&existing)
	switch {
	case err == nil:
		if u.Status != UserStatusRequested {
			return &existing, nil
		}
		return r.applyUserUpdate(ctx, u.Email, bson.M{
			"name":   u.Name,
			"image":  u.Image,
			"status": u.Status,
		})
	case errors.Is(err, mongo.ErrNoDocuments):
		// fall through to insert below
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.CreatedAt = time.Now().UTC()
	return r.applyUserUpdate(ctx, u.Email, bson.M{
		"name":       u.Name,
		"image":      u.Image,
		"role":       u.Role,
		"status":     u.Status,
		"created_at": u.CreatedAt,
	})
}

func (r *Repository) GetUser(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	cur, err := r.usersCol.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	result := []User{}
	for cur.Next(ctx) {
		var u User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		result = append(result, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users cursor: %w", err)
	}
	return result, nil
}

// UpdateUserRole sets role and status for a user, refreshing the
// timestamp; an admin action.
func (r *Repository) UpdateUserRole(ctx context.Context, email, role, status string) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return r.applyUserUpdate(ctx, email, bson.M{
		"role":       role,
		"status":     status,
		"created_at": time.Now().UTC(),
	})
}

func (r *Repository) applyUserUpdate(ctx context.Context, email string, fields bson.M) (*User, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u User
	err := r.usersCol.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": fields}, opts).Decode(&u)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}
