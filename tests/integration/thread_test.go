//go:build integration
// +build integration

package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadFlow(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()
	client := &http.Client{}

	alice := registerAndLogin(t, env, client, "alice.doc@example.com", "Alice Carter", "doctor")
	bob := registerAndLogin(t, env, client, "bob.doc@example.com", "Bob Nguyen", "doctor")

	const roomID = "case-it-001"
	roomURL := fmt.Sprintf("%s/threads/rooms/%s", baseURL, roomID)
	var rootID string

	t.Run("Post A Comment", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost, roomURL+"/comments", alice.Token, map[string]string{
			"content": "Initial findings attached",
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment struct {
			ID     string `json:"id"`
			Author struct {
				Name string `json:"name"`
			} `json:"author"`
			Likes int `json:"likes"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
		assert.Equal(t, "Alice Carter", comment.Author.Name)
		assert.Equal(t, 0, comment.Likes)
		rootID = comment.ID
	})

	t.Run("Reply To It", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost,
			fmt.Sprintf("%s/comments/%s/replies", roomURL, rootID),
			bob.Token, map[string]string{"content": "Agreed, see my notes"})
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Reply To A Missing Parent Is Tolerated", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost,
			fmt.Sprintf("%s/comments/%s/replies", roomURL, "does-not-exist"),
			bob.Token, map[string]string{"content": "orphan"})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("Like And Unlike", func(t *testing.T) {
		likeURL := fmt.Sprintf("%s/comments/%s/like", roomURL, rootID)

		resp := doJSON(t, client, http.MethodPost, likeURL, bob.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var liked struct {
			Likes int `json:"likes"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&liked))
		resp.Body.Close()
		assert.Equal(t, 1, liked.Likes)

		resp = doJSON(t, client, http.MethodPost, likeURL, bob.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&liked))
		resp.Body.Close()
		assert.Equal(t, 0, liked.Likes)
	})

	t.Run("Like On A Missing Comment Is Tolerated", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost,
			fmt.Sprintf("%s/comments/%s/like", roomURL, "does-not-exist"), bob.Token, nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	})

	t.Run("The Thread Reads Back As A Tree", func(t *testing.T) {
		// Like once more so the viewer annotation is visible.
		resp := doJSON(t, client, http.MethodPost,
			fmt.Sprintf("%s/comments/%s/like", roomURL, rootID), bob.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, client, http.MethodGet, roomURL+"/comments", bob.Token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page struct {
			RoomID   string `json:"roomId"`
			Comments []struct {
				ID        string `json:"id"`
				Likes     int    `json:"likes"`
				UserLiked bool   `json:"userLiked"`
				Replies   []struct {
					ID string `json:"id"`
				} `json:"replies"`
			} `json:"comments"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		require.Len(t, page.Comments, 1)
		assert.Equal(t, rootID, page.Comments[0].ID)
		assert.Len(t, page.Comments[0].Replies, 1)
		assert.Equal(t, 1, page.Comments[0].Likes)
		assert.True(t, page.Comments[0].UserLiked)

		// Alice never liked anything; her view carries the count but not the flag.
		resp = doJSON(t, client, http.MethodGet, roomURL+"/comments", alice.Token, nil)
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, 1, page.Comments[0].Likes)
		assert.False(t, page.Comments[0].UserLiked)
	})
}
