package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. The likes array
// mirrors User.LikedPosts on the liking side; comments are embedded in
// creation order.
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user" bson:"user"` // author, immutable after creation
	Text      string               `json:"text" bson:"text"`
	Img       string               `json:"img" bson:"img"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// Comment is a single comment embedded in a post.
type Comment struct {
	UserID    primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// IsLikedBy reports whether the user id is in the post's like set.
func (p *Post) IsLikedBy(id primitive.ObjectID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}

// EnrichedComment is a comment with its author's identity resolved.
type EnrichedComment struct {
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// EnrichedPost is a post with author and comment-author identity resolved,
// the representation all feed reads return.
type EnrichedPost struct {
	ID        primitive.ObjectID   `json:"id"`
	User      UserSummary          `json:"user"`
	Text      string               `json:"text"`
	Img       string               `json:"img"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []EnrichedComment    `json:"comments"`
	CreatedAt time.Time            `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post. Img
// carries the raw image payload, replaced by a storage URL before persistence.
type CreatePostRequest struct {
	Text string `json:"text" validate:"omitempty,max=500"`
	Img  string `json:"img"`
}

// CommentRequest defines the request body for commenting on a post
type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
