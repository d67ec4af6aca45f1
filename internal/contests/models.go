package contests

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contest lifecycle statuses.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// User roles. A role check is flat equality; admin does not imply creator.
const (
	RoleDefault = "default"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// UserStatusRequested marks a user who asked for the creator role.
const UserStatusRequested = "Requested"

// Identity is the embedded user identity carried by contests and bookings.
type Identity struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Contest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"contestname" json:"contestname"`
	Description       string             `bson:"description" json:"description"`
	Image             string             `bson:"image,omitempty" json:"image,omitempty"`
	Price             float64            `bson:"price" json:"price"`
	Prize             float64            `bson:"prize" json:"prize"`
	Instructions      string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`
	Status            string             `bson:"status" json:"status"`
	ParticipantsCount int64              `bson:"participantsCount" json:"participantsCount"`
	Creator           Identity           `bson:"creator" json:"creator"`
	Winner            *Identity          `bson:"winner,omitempty" json:"winner,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

// WonAnnotation mirrors a contest winner onto the winner's booking. It is
// stored independently of Contest.Winner; the two are not reconciled.
type WonAnnotation struct {
	Text  string `bson:"text" json:"text"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

type Booking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContestID    primitive.ObjectID `bson:"contest_id" json:"contestId"`
	ContestName  string             `bson:"contestname,omitempty" json:"contestname,omitempty"`
	CreatorEmail string             `bson:"creator" json:"creator"`
	User         Identity           `bson:"user" json:"user"`
	Won          *WonAnnotation     `bson:"won,omitempty" json:"won,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// CreatorSummary is one row of the top-creators leaderboard.
type CreatorSummary struct {
	CreatorEmail  string `bson:"creatorEmail" json:"creatorEmail"`
	CreatorName   string `bson:"creatorName" json:"creatorName"`
	CreatorImage  string `bson:"creatorImage,omitempty" json:"creatorImage,omitempty"`
	ContestName   string `bson:"contestName" json:"contestName"`
	Description   string `bson:"description" json:"description"`
	TotalContests int64  `bson:"totalContests" json:"totalContests"`
}

// PopularContest is the trimmed projection served on the landing page.
type PopularContest struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Name              string             `bson:"contestname" json:"contestname"`
	Image             string             `bson:"image,omitempty" json:"image,omitempty"`
	Description       string             `bson:"description" json:"description"`
	ParticipantsCount int64              `bson:"participantsCount" json:"participantsCount"`
	Winner            *Identity          `bson:"winner,omitempty" json:"winner,omitempty"`
}

// ValidStatus reports whether s is one of the enumerated contest statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// ValidRole reports whether r is one of the enumerated user roles.
func ValidRole(r string) bool {
	return r == RoleDefault || r == RoleCreator || r == RoleAdmin
}
