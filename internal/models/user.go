package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB. The followers/following and
// likedPosts arrays are denormalized mirrors maintained by the services, not
// by the store.
type User struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	FullName   string               `json:"fullName" bson:"fullName"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	ProfileImg string               `json:"profileImg" bson:"profileImg"`
	CoverImg   string               `json:"coverImg" bson:"coverImg"`
	Bio        string               `json:"bio" bson:"bio"`
	Link       string               `json:"link" bson:"link"`
	Followers  []primitive.ObjectID `json:"followers" bson:"followers"`
	Following  []primitive.ObjectID `json:"following" bson:"following"`
	LikedPosts []primitive.ObjectID `json:"likedPosts" bson:"likedPosts"`
	CreatedAt  time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserSummary is the compact identity attached to feed posts, comments and
// notifications.
type UserSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Username   string             `json:"username"`
	FullName   string             `json:"fullName"`
	ProfileImg string             `json:"profileImg"`
}

// ToSummary returns the compact representation of the user.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		ProfileImg: u.ProfileImg,
	}
}

// IsFollowing reports whether id is in the user's following list.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// SignupRequest defines the request body for account creation
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	FullName string `json:"fullName" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for authentication
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates. Image
// fields carry raw payloads (data URIs) that are swapped for storage URLs
// before persistence.
type UpdateProfileRequest struct {
	FullName        string `json:"fullName,omitempty" validate:"omitempty,min=2,max=50"`
	Email           string `json:"email,omitempty" validate:"omitempty,email"`
	Username        string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Link            string `json:"link,omitempty"`
	ProfileImg      string `json:"profileImg,omitempty"`
	CoverImg        string `json:"coverImg,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
