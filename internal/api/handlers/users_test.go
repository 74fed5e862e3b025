package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpnet/backend/internal/store"
)

func TestListUsers(t *testing.T) {
	router, _ := newTestRouter(t)
	signupForm(t, router, "u1")
	_, cookies := signupForm(t, router, "u2")

	w := doRequest(router, http.MethodGet, "/users", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
	assert.Contains(t, w.Body.String(), "u2")
}

func TestListUsers_Filtered(t *testing.T) {
	router, _ := newTestRouter(t)
	signupForm(t, router, "alpha")
	_, cookies := signupForm(t, router, "beta")

	w := doRequest(router, http.MethodGet, "/users?q=alp", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alpha")
	assert.NotContains(t, w.Body.String(), "beta")
}

func TestShowUser(t *testing.T) {
	router, _ := newTestRouter(t)
	u1, _ := signupForm(t, router, "u1")
	_, cookies := signupForm(t, router, "u2")

	w := doRequest(router, http.MethodGet, "/users/"+u1.User.ID.String(), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestShowUser_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	_, cookies := signupForm(t, router, "u1")

	w := doRequest(router, http.MethodGet, "/users/8f14e45f-ceea-4e77-8d2c-341b0e9b0b5b", nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowFlow(t *testing.T) {
	router, db := newTestRouter(t)
	u1, _ := signupForm(t, router, "u1")
	signupForm(t, router, "u2")
	u6, cookies := signupForm(t, router, "u6")

	w := doRequest(router, http.MethodPost, "/users/follow/"+u1.User.ID.String(), nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/users/%s/following", u6.User.ID), w.Header().Get("Location"))

	// u6 follows u1 but not u2.
	w = doRequest(router, http.MethodGet, fmt.Sprintf("/users/%s/following", u6.User.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
	assert.NotContains(t, w.Body.String(), "u2")

	// u1 is followed by u6.
	w = doRequest(router, http.MethodGet, fmt.Sprintf("/users/%s/followers", u1.User.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u6")

	// The symmetric store queries agree with what the routes showed.
	follows := store.NewFollowStore(db)
	following, err := follows.IsFollowing(context.Background(), u6.User.ID, u1.User.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Unfollow restores the original state.
	w = doRequest(router, http.MethodPost, "/users/stop-following/"+u1.User.ID.String(), nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	following, err = follows.IsFollowing(context.Background(), u6.User.ID, u1.User.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollow_Self(t *testing.T) {
	router, _ := newTestRouter(t)
	u1, cookies := signupForm(t, router, "u1")

	w := doRequest(router, http.MethodPost, "/users/follow/"+u1.User.ID.String(), nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollow_Twice(t *testing.T) {
	router, _ := newTestRouter(t)
	u1, _ := signupForm(t, router, "u1")
	_, cookies := signupForm(t, router, "u6")

	w := doRequest(router, http.MethodPost, "/users/follow/"+u1.User.ID.String(), nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	// The edge already exists; the route stays idempotent for browsers.
	w = doRequest(router, http.MethodPost, "/users/follow/"+u1.User.ID.String(), nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	router, _ := newTestRouter(t)
	_, cookies := signupForm(t, router, "u1")

	form := url.Values{
		"username": {"u1-renamed"},
		"email":    {"u1-new@email.com"},
		"bio":      {"hello there"},
		"password": {"password"},
	}
	w := doRequest(router, http.MethodPost, "/users/profile", form, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1-renamed")

	w = doRequest(router, http.MethodGet, "/users/profile", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello there")
}

func TestUpdateProfile_WrongPassword(t *testing.T) {
	router, db := newTestRouter(t)
	u1, cookies := signupForm(t, router, "u1")

	form := url.Values{
		"username": {"hijacked"},
		"email":    {"hijacked@email.com"},
		"bio":      {"changed"},
		"password": {"BADpassword"},
	}
	w := doRequest(router, http.MethodPost, "/users/profile", form, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, InvalidPasswordMessage, errorMessage(t, w))

	// Stored fields are untouched.
	users := store.NewUserStore(db)
	stored, err := users.ByID(context.Background(), u1.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.Username)
	assert.Equal(t, "u1@email.com", stored.Email)
	assert.Empty(t, stored.Bio)
}

func TestUpdateProfile_TakenUsername(t *testing.T) {
	router, _ := newTestRouter(t)
	signupForm(t, router, "u1")
	_, cookies := signupForm(t, router, "u2")

	form := url.Values{
		"username": {"u1"},
		"email":    {"u2@email.com"},
		"password": {"password"},
	}
	w := doRequest(router, http.MethodPost, "/users/profile", form, cookies)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ConflictMessage, errorMessage(t, w))
}

func TestDeleteAccount(t *testing.T) {
	router, db := newTestRouter(t)
	u1, _ := signupForm(t, router, "u1")
	u2, cookies := signupForm(t, router, "u2")

	// u2 posts a message and follows u1.
	form := url.Values{"text": {"goodbye"}}
	w := doRequest(router, http.MethodPost, "/messages/new", form, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, http.MethodPost, "/users/follow/"+u1.User.ID.String(), nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	w = doRequest(router, http.MethodPost, "/users/delete", nil, cookies)
	require.Equal(t, http.StatusFound, w.Code)

	// Account, messages and edges are gone.
	users := store.NewUserStore(db)
	_, err := users.ByID(context.Background(), u2.User.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	follows := store.NewFollowStore(db)
	followers, err := follows.Followers(context.Background(), u1.User.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	// The old session no longer authenticates.
	w2 := doRequest(router, http.MethodGet, "/users", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusFound, w2.Code)
}
