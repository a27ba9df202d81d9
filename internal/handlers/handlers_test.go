package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/services"
	"github.com/tanvir-ahmd/chirpline/backend/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store         *testutil.Store
	users         *UserHandler
	posts         *PostHandler
	notifications *NotificationHandler
	echo          *echo.Echo
}

func newFixture() *fixture {
	store := testutil.NewStore()
	social := services.NewSocialService(store.Users, store.Notifications, store.Storage)
	engagement := services.NewEngagementService(store.Posts, store.Users, store.Notifications, store.Storage)
	feeds := services.NewFeedService(store.Posts, store.Users)
	notifications := services.NewNotificationService(store.Notifications, store.Users)

	return &fixture{
		store:         store,
		users:         NewUserHandler(social),
		posts:         NewPostHandler(engagement, feeds),
		notifications: NewNotificationHandler(notifications),
		echo:          echo.New(),
	}
}

// request builds an authenticated echo context the way the JWT middleware
// leaves it.
func (f *fixture) request(method, target, body string, as primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	if as != primitive.NilObjectID {
		c.Set("userID", as.Hex())
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFollowRouteTogglesMessage(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")
	bob := f.store.AddUser("bob")

	c, rec := f.request(http.MethodPost, "/user/follow/"+bob.ID.Hex(), "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(bob.ID.Hex())
	require.NoError(t, f.users.FollowUnfollow(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User followed successfully", decodeBody(t, rec)["message"])

	c, rec = f.request(http.MethodPost, "/user/follow/"+bob.ID.Hex(), "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(bob.ID.Hex())
	require.NoError(t, f.users.FollowUnfollow(c))
	assert.Equal(t, "User unfollowed successfully", decodeBody(t, rec)["message"])
}

func TestFollowRouteSelfReference(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")

	c, rec := f.request(http.MethodPost, "/user/follow/"+alice.ID.Hex(), "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(alice.ID.Hex())
	require.NoError(t, f.users.FollowUnfollow(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You can't follow/unfollow yourself", decodeBody(t, rec)["error"])
}

func TestLikeRouteUnknownPost(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")
	missing := primitive.NewObjectID()

	c, rec := f.request(http.MethodPost, "/post/like/"+missing.Hex(), "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(missing.Hex())
	require.NoError(t, f.posts.LikeUnlike(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", decodeBody(t, rec)["error"])
}

func TestCreatePostRoute(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")

	c, rec := f.request(http.MethodPost, "/post/create", `{"text":"hello"}`, alice.ID)
	require.NoError(t, f.posts.CreatePost(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "hello", body["text"])
	assert.Equal(t, alice.ID.Hex(), body["user"])
}

func TestCreatePostRouteValidation(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")

	c, rec := f.request(http.MethodPost, "/post/create", `{}`, alice.ID)
	require.NoError(t, f.posts.CreatePost(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post must have text or image", decodeBody(t, rec)["error"])
}

func TestDeletePostRouteForbidden(t *testing.T) {
	f := newFixture()
	author := f.store.AddUser("author")
	stranger := f.store.AddUser("stranger")
	post := f.store.AddPost(author.ID, "hello", time.Now())

	c, rec := f.request(http.MethodDelete, "/post/"+post.ID.Hex(), "", stranger.ID)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	require.NoError(t, f.posts.DeletePost(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotNil(t, f.store.Posts.Get(post.ID))
}

func TestGlobalFeedRouteEmptyArray(t *testing.T) {
	f := newFixture()
	alice := f.store.AddUser("alice")

	c, rec := f.request(http.MethodGet, "/post/all", "", alice.ID)
	require.NoError(t, f.posts.GlobalFeed(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestNotificationRouteDeleteOne(t *testing.T) {
	f := newFixture()
	actor := f.store.AddUser("actor")
	recipient := f.store.AddUser("recipient")
	stranger := f.store.AddUser("stranger")
	require.NoError(t, f.store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeFollow, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))
	id := strconv.Itoa(int(f.store.Notifications.Items[0].ID))

	c, rec := f.request(http.MethodDelete, "/notification/"+id, "", stranger.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, f.notifications.DeleteOne(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = f.request(http.MethodDelete, "/notification/"+id, "", recipient.ID)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, f.notifications.DeleteOne(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notification deleted successfully", decodeBody(t, rec)["message"])
}

func TestListNotificationsRouteMarksRead(t *testing.T) {
	f := newFixture()
	actor := f.store.AddUser("actor")
	recipient := f.store.AddUser("recipient")
	require.NoError(t, f.store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeLike, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))

	c, rec := f.request(http.MethodGet, "/notification", "", recipient.ID)
	require.NoError(t, f.notifications.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	fromUser, ok := listed[0]["fromUser"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "actor", fromUser["username"])
	assert.True(t, f.store.Notifications.Items[0].IsRead)
}

func TestUnauthenticatedRequest(t *testing.T) {
	f := newFixture()

	c, rec := f.request(http.MethodGet, "/post/following", "", primitive.NilObjectID)
	require.NoError(t, f.posts.FollowingFeed(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authenticated", decodeBody(t, rec)["error"])
}
