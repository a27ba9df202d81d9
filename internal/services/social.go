package services

import (
	"context"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	suggestionSampleSize = 10
	suggestionLimit      = 4
	passwordMinLength    = 6
)

// FollowResult tags the outcome of a follow toggle.
type FollowResult string

const (
	FollowResultFollowed   FollowResult = "followed"
	FollowResultUnfollowed FollowResult = "unfollowed"
)

// SocialService maintains the follow graph: the mirrored follower/following
// lists on both user records, follow notifications, and the suggestion and
// profile read paths.
type SocialService struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	storage       ObjectStorage
}

// NewSocialService returns a new SocialService.
func NewSocialService(users repositories.UserRepository, notifications repositories.NotificationRepository, storage ObjectStorage) *SocialService {
	return &SocialService{
		users:         users,
		notifications: notifications,
		storage:       storage,
	}
}

// FollowUnfollow toggles the follow relationship from actor to target. The
// mirrored lists are updated as two sequential independent writes (target's
// followers first, then actor's following); there is no transaction, so a
// failure between them leaves the first write committed. Following emits a
// notification to the target; unfollowing is silent.
func (s *SocialService) FollowUnfollow(ctx context.Context, actorID, targetID primitive.ObjectID) (FollowResult, error) {
	if actorID == targetID {
		return "", models.NewSelfReferenceError("You can't follow/unfollow yourself")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}

	if actor.IsFollowing(targetID) {
		if err := s.users.RemoveFollower(ctx, target.ID, actor.ID); err != nil {
			return "", err
		}
		if err := s.users.RemoveFollowing(ctx, actor.ID, target.ID); err != nil {
			return "", err
		}
		return FollowResultUnfollowed, nil
	}

	if err := s.users.AddFollower(ctx, target.ID, actor.ID); err != nil {
		return "", err
	}
	if err := s.users.AddFollowing(ctx, actor.ID, target.ID); err != nil {
		return "", err
	}

	notification := &models.Notification{
		Type:   models.NotificationTypeFollow,
		FromID: actor.ID.Hex(),
		ToID:   target.ID.Hex(),
	}
	if err := s.notifications.Create(notification); err != nil {
		return "", err
	}
	return FollowResultFollowed, nil
}

// Suggest returns up to 4 users the caller does not follow yet, drawn from a
// fresh uniform random sample of up to 10 candidates. The random draw lives
// in the repository; results are non-deterministic across calls on purpose.
func (s *SocialService) Suggest(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	me, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.users.Sample(ctx, userID, suggestionSampleSize)
	if err != nil {
		return nil, err
	}

	suggested := []models.User{}
	for _, candidate := range candidates {
		if me.IsFollowing(candidate.ID) {
			continue
		}
		candidate.Password = ""
		suggested = append(suggested, candidate)
		if len(suggested) == suggestionLimit {
			break
		}
	}
	return suggested, nil
}

// Profile returns the public profile for a username.
func (s *SocialService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile applies a partial profile update to the caller. A password
// change requires both the current and the new password; image payloads
// release the previously stored object before the replacement is uploaded.
func (s *SocialService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if (req.NewPassword == "") != (req.CurrentPassword == "") {
		return nil, models.NewValidationError("Please provide both current password and new password")
	}
	if req.CurrentPassword != "" && req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, models.NewValidationError("Current password is incorrect")
		}
		if len(req.NewPassword) < passwordMinLength {
			return nil, models.NewValidationError("Password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if req.ProfileImg != "" {
		url, err := s.replaceImage(ctx, user.ProfileImg, req.ProfileImg)
		if err != nil {
			return nil, err
		}
		user.ProfileImg = url
	}
	if req.CoverImg != "" {
		url, err := s.replaceImage(ctx, user.CoverImg, req.CoverImg)
		if err != nil {
			return nil, err
		}
		user.CoverImg = url
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Link != "" {
		user.Link = req.Link
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *SocialService) replaceImage(ctx context.Context, oldURL, payload string) (string, error) {
	if oldURL != "" {
		if err := s.storage.Destroy(ctx, oldURL); err != nil {
			return "", models.NewUpstreamError("Failed to release stored image", err)
		}
	}
	url, err := s.storage.Upload(ctx, payload)
	if err != nil {
		return "", models.NewUpstreamError("Failed to upload image", err)
	}
	return url, nil
}
