package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/testutil"
)

func newNotificationFixture() (*testutil.Store, *NotificationService) {
	store := testutil.NewStore()
	return store, NewNotificationService(store.Notifications, store.Users)
}

func TestListMarksAllReadAndResolvesActor(t *testing.T) {
	store, svc := newNotificationFixture()
	actor := store.AddUser("actor")
	recipient := store.AddUser("recipient")

	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type:   models.NotificationTypeFollow,
		FromID: actor.ID.Hex(),
		ToID:   recipient.ID.Hex(),
	}))

	listed, err := svc.List(context.Background(), recipient.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "actor", listed[0].From.Username)

	// fetching flips every record to read
	assert.True(t, store.Notifications.Items[0].IsRead)
}

func TestListOnlyRecipientsNotifications(t *testing.T) {
	store, svc := newNotificationFixture()
	actor := store.AddUser("actor")
	recipient := store.AddUser("recipient")
	bystander := store.AddUser("bystander")

	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeLike, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))
	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeLike, FromID: actor.ID.Hex(), ToID: bystander.ID.Hex(),
	}))

	listed, err := svc.List(context.Background(), recipient.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, recipient.ID.Hex(), listed[0].ToID)

	// the bystander's record stays unread
	assert.False(t, store.Notifications.Items[1].IsRead)
}

func TestDeleteOneOwnershipEnforced(t *testing.T) {
	store, svc := newNotificationFixture()
	actor := store.AddUser("actor")
	recipient := store.AddUser("recipient")
	stranger := store.AddUser("stranger")

	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeFollow, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))
	id := store.Notifications.Items[0].ID

	err := svc.DeleteOne(context.Background(), stranger.ID, id)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	assert.Len(t, store.Notifications.Items, 1)

	require.NoError(t, svc.DeleteOne(context.Background(), recipient.ID, id))
	assert.Empty(t, store.Notifications.Items)
}

func TestDeleteOneMissing(t *testing.T) {
	store, svc := newNotificationFixture()
	recipient := store.AddUser("recipient")

	err := svc.DeleteOne(context.Background(), recipient.ID, 42)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDeleteAllRemovesOnlyRecipients(t *testing.T) {
	store, svc := newNotificationFixture()
	actor := store.AddUser("actor")
	recipient := store.AddUser("recipient")
	bystander := store.AddUser("bystander")

	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeLike, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))
	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeFollow, FromID: actor.ID.Hex(), ToID: recipient.ID.Hex(),
	}))
	require.NoError(t, store.Notifications.Create(&models.Notification{
		Type: models.NotificationTypeLike, FromID: actor.ID.Hex(), ToID: bystander.ID.Hex(),
	}))

	require.NoError(t, svc.DeleteAll(context.Background(), recipient.ID))
	require.Len(t, store.Notifications.Items, 1)
	assert.Equal(t, bystander.ID.Hex(), store.Notifications.Items[0].ToID)
}
