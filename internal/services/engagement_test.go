package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newEngagementFixture() (*testutil.Store, *EngagementService) {
	store := testutil.NewStore()
	return store, NewEngagementService(store.Posts, store.Users, store.Notifications, store.Storage)
}

func TestLikeUnlikeMirrorsBothRecords(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	viewer := store.AddUser("viewer")
	post := store.AddPost(author.ID, "hello", time.Now())

	likes, err := svc.LikeUnlike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{viewer.ID}, likes)

	assert.Equal(t, []primitive.ObjectID{viewer.ID}, store.Posts.Get(post.ID).Likes)
	assert.Equal(t, []primitive.ObjectID{post.ID}, store.Users.Get(viewer.ID).LikedPosts)

	require.Len(t, store.Notifications.Items, 1)
	n := store.Notifications.Items[0]
	assert.Equal(t, models.NotificationTypeLike, n.Type)
	assert.Equal(t, viewer.ID.Hex(), n.FromID)
	assert.Equal(t, author.ID.Hex(), n.ToID)

	likes, err = svc.LikeUnlike(context.Background(), viewer.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	assert.Empty(t, store.Posts.Get(post.ID).Likes)
	assert.Empty(t, store.Users.Get(viewer.ID).LikedPosts)
	// unlike is silent
	assert.Len(t, store.Notifications.Items, 1)
}

func TestLikeOwnPostNotifiesSelf(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	post := store.AddPost(author.ID, "hello", time.Now())

	_, err := svc.LikeUnlike(context.Background(), author.ID, post.ID)
	require.NoError(t, err)

	require.Len(t, store.Notifications.Items, 1)
	assert.Equal(t, author.ID.Hex(), store.Notifications.Items[0].FromID)
	assert.Equal(t, author.ID.Hex(), store.Notifications.Items[0].ToID)
}

func TestLikeUnlikePostMissing(t *testing.T) {
	store, svc := newEngagementFixture()
	viewer := store.AddUser("viewer")

	_, err := svc.LikeUnlike(context.Background(), viewer.ID, primitive.NewObjectID())
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestLikeNotificationFailureLeavesWritesCommitted(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	viewer := store.AddUser("viewer")
	post := store.AddPost(author.ID, "hello", time.Now())
	store.Notifications.CreateErr = assert.AnError

	_, err := svc.LikeUnlike(context.Background(), viewer.ID, post.ID)
	require.Error(t, err)

	// both mirror writes committed before the notification failed
	assert.Equal(t, []primitive.ObjectID{viewer.ID}, store.Posts.Get(post.ID).Likes)
	assert.Equal(t, []primitive.ObjectID{post.ID}, store.Users.Get(viewer.ID).LikedPosts)
}

func TestCreatePostRequiresTextOrImage(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")

	_, err := svc.CreatePost(context.Background(), author.ID, &models.CreatePostRequest{})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)

	all, err := store.Posts.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreatePostUploadsImage(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")

	post, err := svc.CreatePost(context.Background(), author.ID, &models.CreatePostRequest{
		Img: "data:image/png;base64,abcd",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"data:image/png;base64,abcd"}, store.Storage.Uploaded)
	assert.Equal(t, "https://storage.googleapis.com/test-bucket/obj-1.jpg", post.Img)
	assert.Equal(t, author.ID, post.UserID)
	assert.Equal(t, post.Img, store.Posts.Get(post.ID).Img)
}

func TestCreatePostUploadFailure(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	store.Storage.UploadErr = assert.AnError

	_, err := svc.CreatePost(context.Background(), author.ID, &models.CreatePostRequest{Img: "abcd"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUpstream, appErr.Code)

	all, getErr := store.Posts.GetAll(context.Background())
	require.NoError(t, getErr)
	assert.Empty(t, all)
}

func TestCreatePostAuthorMissing(t *testing.T) {
	_, svc := newEngagementFixture()

	_, err := svc.CreatePost(context.Background(), primitive.NewObjectID(), &models.CreatePostRequest{Text: "hi"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentRequiresText(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	post := store.AddPost(author.ID, "hello", time.Now())

	_, err := svc.Comment(context.Background(), author.ID, post.ID, "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Empty(t, store.Posts.Get(post.ID).Comments)
}

func TestCommentAppendsInOrder(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	viewer := store.AddUser("viewer")
	post := store.AddPost(author.ID, "hello", time.Now())

	_, err := svc.Comment(context.Background(), viewer.ID, post.ID, "first")
	require.NoError(t, err)
	updated, err := svc.Comment(context.Background(), author.ID, post.ID, "second")
	require.NoError(t, err)

	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "first", updated.Comments[0].Text)
	assert.Equal(t, viewer.ID, updated.Comments[0].UserID)
	assert.Equal(t, "second", updated.Comments[1].Text)
	assert.False(t, updated.Comments[0].CreatedAt.IsZero())

	// comments never notify
	assert.Empty(t, store.Notifications.Items)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	stranger := store.AddUser("stranger")
	post := store.AddPost(author.ID, "hello", time.Now())

	err := svc.DeletePost(context.Background(), stranger.ID, post.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	assert.NotNil(t, store.Posts.Get(post.ID))
}

func TestDeletePostReleasesStoredImage(t *testing.T) {
	store, svc := newEngagementFixture()
	author := store.AddUser("author")
	post := store.AddPost(author.ID, "hello", time.Now())
	store.Posts.Get(post.ID).Img = "https://storage.googleapis.com/test-bucket/pic.jpg"

	err := svc.DeletePost(context.Background(), author.ID, post.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://storage.googleapis.com/test-bucket/pic.jpg"}, store.Storage.Destroyed)
	assert.Nil(t, store.Posts.Get(post.ID))
}
