package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachinsingh018/networkqy/models"
)

func TestCreatePostAndFeed(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, token := seedUser(t, db, "Poster", "poster@example.com", "student")

	w := doJSON(t, r, "POST", "/api/posts", token, map[string]interface{}{
		"content": "Excited to share that I passed my cloud certification.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	posts := data["posts"].([]interface{})
	require.Len(t, posts, 1)

	post := posts[0].(map[string]interface{})
	assert.Equal(t, false, post["is_anonymous"])
	author := post["author"].(map[string]interface{})
	assert.Equal(t, "Poster", author["name"])
}

func TestModerationRejectsProfanePost(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, token := seedUser(t, db, "Poster", "poster@example.com", "student")

	w := doJSON(t, r, "POST", "/api/posts", token, map[string]interface{}{
		"content": "SHIT happens",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/api/posts", token, map[string]interface{}{
		"content": "abc123456789",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count, "rejected posts must not be persisted")
}

func TestAnonymousPostHidesAuthor(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, token := seedUser(t, db, "Shy Poster", "shy@example.com", "student")

	w := doJSON(t, r, "POST", "/api/posts", token, map[string]interface{}{
		"content":      "Does anyone else find the on-campus recruiting process stressful?",
		"is_anonymous": true,
		"alias":        "worried_senior",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/posts", token, nil)
	posts := parseBody(t, w)["data"].(map[string]interface{})["posts"].([]interface{})
	require.Len(t, posts, 1)

	post := posts[0].(map[string]interface{})
	assert.Equal(t, true, post["is_anonymous"])
	assert.Equal(t, "worried_senior", post["alias"])
	assert.Nil(t, post["author"])
}

func TestAnonymousAliasModeratedWithSuggestions(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, token := seedUser(t, db, "Shy Poster", "shy@example.com", "student")

	w := doJSON(t, r, "POST", "/api/posts", token, map[string]interface{}{
		"content":      "A perfectly fine question.",
		"is_anonymous": true,
		"alias":        "bitchmode",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["suggestions"])
}

func TestCommentsAndLikes(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouterForTest(db)
	_, posterToken := seedUser(t, db, "Poster", "poster@example.com", "student")
	_, readerToken := seedUser(t, db, "Reader", "reader@example.com", "alumni")

	w := doJSON(t, r, "POST", "/api/posts", posterToken, map[string]interface{}{
		"content": "What stacks are you all using for side projects?",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := uint(parseBody(t, w)["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/posts/%d/comments", postID), readerToken, map[string]interface{}{
		"content": "Go and Postgres, mostly.",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/posts/%d/comments", postID), readerToken, map[string]interface{}{
		"content": "fuck this thread",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Like toggles on and off.
	w = doJSON(t, r, "POST", fmt.Sprintf("/api/posts/%d/like", postID), readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseBody(t, w)["data"].(map[string]interface{})["liked"])

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/posts/%d/like", postID), readerToken, nil)
	assert.Equal(t, false, parseBody(t, w)["data"].(map[string]interface{})["liked"])

	w = doJSON(t, r, "GET", fmt.Sprintf("/api/posts/%d/comments", postID), readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := parseBody(t, w)["data"].([]interface{})
	assert.Len(t, comments, 1)
}
