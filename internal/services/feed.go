package services

import (
	"context"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedService assembles ordered post streams over the follow graph and
// resolves author identity into each returned post.
type FeedService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(posts repositories.PostRepository, users repositories.UserRepository) *FeedService {
	return &FeedService{posts: posts, users: users}
}

// GlobalFeed returns all posts, newest first. No posts is an empty slice,
// not an error.
func (s *FeedService) GlobalFeed(ctx context.Context) ([]models.EnrichedPost, error) {
	posts, err := s.posts.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts), nil
}

// FollowingFeed returns posts authored by anyone the caller follows, newest
// first. A caller following nobody gets an empty slice.
func (s *FeedService) FollowingFeed(ctx context.Context, userID primitive.ObjectID) ([]models.EnrichedPost, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Following) == 0 {
		return []models.EnrichedPost{}, nil
	}

	posts, err := s.posts.GetByAuthors(ctx, user.Following)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts), nil
}

// AuthorFeed returns one author's posts, newest first.
func (s *FeedService) AuthorFeed(ctx context.Context, username string) ([]models.EnrichedPost, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.GetByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts), nil
}

// LikedFeed returns the posts a user has liked, in storage order.
func (s *FeedService) LikedFeed(ctx context.Context, userID primitive.ObjectID) ([]models.EnrichedPost, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.LikedPosts) == 0 {
		return []models.EnrichedPost{}, nil
	}

	posts, err := s.posts.GetByIDs(ctx, user.LikedPosts)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts), nil
}

// enrich resolves author identity for every post and comment, caching
// lookups per call. Authors that fail to resolve are left as zero summaries
// rather than failing the read.
func (s *FeedService) enrich(ctx context.Context, posts []models.Post) []models.EnrichedPost {
	cache := make(map[primitive.ObjectID]models.UserSummary)
	lookup := func(id primitive.ObjectID) models.UserSummary {
		if summary, ok := cache[id]; ok {
			return summary
		}
		summary := models.UserSummary{}
		if user, err := s.users.GetByID(ctx, id); err == nil {
			summary = user.ToSummary()
		}
		cache[id] = summary
		return summary
	}

	enriched := make([]models.EnrichedPost, len(posts))
	for i, post := range posts {
		comments := make([]models.EnrichedComment, len(post.Comments))
		for j, comment := range post.Comments {
			comments[j] = models.EnrichedComment{
				User:      lookup(comment.UserID),
				Text:      comment.Text,
				CreatedAt: comment.CreatedAt,
			}
		}
		enriched[i] = models.EnrichedPost{
			ID:        post.ID,
			User:      lookup(post.UserID),
			Text:      post.Text,
			Img:       post.Img,
			Likes:     post.Likes,
			Comments:  comments,
			CreatedAt: post.CreatedAt,
		}
	}
	return enriched
}
