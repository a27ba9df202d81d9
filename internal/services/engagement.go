package services

import (
	"context"
	"time"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EngagementService maintains the mirrored like state between posts and
// users, appends comments, and owns the post lifecycle including the stored
// image handed to external object storage.
type EngagementService struct {
	posts         repositories.PostRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	storage       ObjectStorage
}

// NewEngagementService returns a new EngagementService.
func NewEngagementService(posts repositories.PostRepository, users repositories.UserRepository, notifications repositories.NotificationRepository, storage ObjectStorage) *EngagementService {
	return &EngagementService{
		posts:         posts,
		users:         users,
		notifications: notifications,
		storage:       storage,
	}
}

// CreatePost creates a post for the author. At least one of text and image
// is required; an image payload is uploaded to object storage and replaced
// with its retrieval URL before the record is persisted.
func (s *EngagementService) CreatePost(ctx context.Context, authorID primitive.ObjectID, req *models.CreatePostRequest) (*models.Post, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if req.Text == "" && req.Img == "" {
		return nil, models.NewValidationError("Post must have text or image")
	}

	img := ""
	if req.Img != "" {
		url, err := s.storage.Upload(ctx, req.Img)
		if err != nil {
			return nil, models.NewUpstreamError("Failed to upload image", err)
		}
		img = url
	}

	post := &models.Post{
		UserID: author.ID,
		Text:   req.Text,
		Img:    img,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the actor's own post. A stored image is released from
// object storage before the record goes; the two steps commit independently,
// so a failure in between leaves the stored image gone and the record in
// place.
func (s *EngagementService) DeletePost(ctx context.Context, actorID, postID primitive.ObjectID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != actorID {
		return models.NewForbiddenError("You are not authorized to delete this post")
	}

	if post.Img != "" {
		if err := s.storage.Destroy(ctx, post.Img); err != nil {
			return models.NewUpstreamError("Failed to release stored image", err)
		}
	}

	return s.posts.Delete(ctx, postID)
}

// LikeUnlike toggles the actor's like on a post and returns the updated like
// set. Like and unlike each perform two sequential independent writes to
// keep Post.Likes and User.LikedPosts mirrored; there is no rollback if the
// second write fails. A like notifies the post's author, including when the
// actor likes their own post; an unlike is silent.
func (s *EngagementService) LikeUnlike(ctx context.Context, actorID, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.IsLikedBy(actorID) {
		if err := s.posts.RemoveLike(ctx, post.ID, actorID); err != nil {
			return nil, err
		}
		if err := s.users.RemoveLikedPost(ctx, actorID, post.ID); err != nil {
			return nil, err
		}

		updated := []primitive.ObjectID{}
		for _, id := range post.Likes {
			if id != actorID {
				updated = append(updated, id)
			}
		}
		return updated, nil
	}

	if err := s.users.AddLikedPost(ctx, actorID, post.ID); err != nil {
		return nil, err
	}
	if err := s.posts.AddLike(ctx, post.ID, actorID); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Type:   models.NotificationTypeLike,
		FromID: actorID.Hex(),
		ToID:   post.UserID.Hex(),
	}
	if err := s.notifications.Create(notification); err != nil {
		return nil, err
	}

	return append(post.Likes, actorID), nil
}

// Comment appends a comment to the post's ordered comment sequence and
// returns the updated post. Comments do not notify.
func (s *EngagementService) Comment(ctx context.Context, actorID, postID primitive.ObjectID, text string) (*models.Post, error) {
	if text == "" {
		return nil, models.NewValidationError("Text field is required")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		UserID:    actorID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.posts.AddComment(ctx, post.ID, comment); err != nil {
		return nil, err
	}

	post.Comments = append(post.Comments, comment)
	return post, nil
}
