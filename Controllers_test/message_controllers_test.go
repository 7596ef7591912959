package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachinsingh018/networkqy/models"
)

func TestSendMessagePersistsWithOfflineReceiver(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, aliceToken := seedUser(t, db, "Alice", "alice@example.com", "student")
	bob, _ := seedUser(t, db, "Bob", "bob@example.com", "alumni")

	// Bob has no live socket; the send must still succeed because the
	// database write is the system of record.
	w := doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": bob.ID,
		"body":        "hey, are you coming to the meetup?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var msg models.Message
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, bob.ID, msg.ReceiverID)
	assert.False(t, msg.IsRead)
	assert.NotEmpty(t, msg.ClientID, "server should assign a client id when the sender omits one")
}

func TestSendMessageNotifiesReceiver(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	alice, aliceToken := seedUser(t, db, "Alice", "alice@example.com", "student")
	bob, _ := seedUser(t, db, "Bob", "bob@example.com", "alumni")

	w := doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": bob.ID,
		"body":        "did you see the posting at Acme?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var notifs []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", bob.ID, models.NotifNewMessage).
		Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, alice.ID, *notifs[0].RelatedUserID)
	assert.False(t, notifs[0].IsRead)

	// A rejected send must not leave a notification behind.
	w = doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": alice.ID,
		"body":        "note to self",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var total int64
	db.Model(&models.Notification{}).Count(&total)
	assert.EqualValues(t, 1, total)
}

func TestSendMessageValidation(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	alice, aliceToken := seedUser(t, db, "Alice", "alice@example.com", "student")

	w := doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": alice.ID,
		"body":        "note to self",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": 9999,
		"body":        "hello?",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": alice.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConversationMarksMessagesRead(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	alice, aliceToken := seedUser(t, db, "Alice", "alice@example.com", "student")
	bob, bobToken := seedUser(t, db, "Bob", "bob@example.com", "alumni")

	doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": bob.ID, "body": "first",
	})
	doJSON(t, r, "POST", "/api/messages", aliceToken, map[string]interface{}{
		"receiver_id": bob.ID, "body": "second",
	})

	// Bob opens the conversation: Alice's messages flip to read.
	w := doJSON(t, r, "GET", fmt.Sprintf("/api/messages/%d", alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].([]interface{})
	require.Len(t, data, 2)
	for _, item := range data {
		assert.Equal(t, true, item.(map[string]interface{})["is_read"])
	}

	var unread int64
	db.Model(&models.Message{}).Where("receiver_id = ? AND is_read = ?", bob.ID, false).Count(&unread)
	assert.EqualValues(t, 0, unread)
}

func TestListConversations(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	alice, aliceToken := seedUser(t, db, "Alice", "alice@example.com", "student")
	bob, bobToken := seedUser(t, db, "Bob", "bob@example.com", "alumni")
	carol, carolToken := seedUser(t, db, "Carol", "carol@example.com", "alumni")

	doJSON(t, r, "POST", "/api/messages", bobToken, map[string]interface{}{
		"receiver_id": alice.ID, "body": "hi from bob",
	})
	doJSON(t, r, "POST", "/api/messages", carolToken, map[string]interface{}{
		"receiver_id": alice.ID, "body": "hi from carol",
	})
	doJSON(t, r, "POST", "/api/messages", carolToken, map[string]interface{}{
		"receiver_id": alice.ID, "body": "ping",
	})

	w := doJSON(t, r, "GET", "/api/conversations", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].([]interface{})
	require.Len(t, data, 2)

	// Newest thread first: Carol's, with two unread.
	first := data[0].(map[string]interface{})
	assert.EqualValues(t, carol.ID, first["user_id"])
	assert.EqualValues(t, 2, first["unread_count"])

	second := data[1].(map[string]interface{})
	assert.EqualValues(t, bob.ID, second["user_id"])
	assert.EqualValues(t, 1, second["unread_count"])
}
