package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	userservice "blog-platform/internal/service/user"
	"blog-platform/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService keeps users in memory and issues real tokens, so the
// handler tests exercise the same token path as production.
type fakeService struct {
	tok   *auth.Tokenizer
	users map[string]models.User
	next  int64
}

func (f *fakeService) Register(_ context.Context, username, email, password string) (models.User, error) {
	if _, ok := f.users[username]; ok {
		return models.User{}, userservice.ErrUserExists
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	f.next++
	user := models.User{ID: f.next, Username: username, Email: email, PassHash: hash}
	f.users[username] = user
	return user, nil
}

func (f *fakeService) Login(_ context.Context, username, password string) (string, error) {
	user, ok := f.users[username]
	if !ok || !auth.VerifyPassword(password, user.PassHash) {
		return "", userservice.ErrInvalidCredentials
	}
	return f.tok.Issue(user.Username)
}

func (f *fakeService) UpdateProfile(_ context.Context, id int64, firstName, lastName *string) (models.User, error) {
	for name, user := range f.users {
		if user.ID != id {
			continue
		}
		if firstName != nil {
			user.FirstName = *firstName
		}
		if lastName != nil {
			user.LastName = *lastName
		}
		f.users[name] = user
		return user, nil
	}
	return models.User{}, userservice.ErrUserNotFound
}

func (f *fakeService) ChangePassword(_ context.Context, user models.User, current, next string) error {
	if !auth.VerifyPassword(current, user.PassHash) {
		return userservice.ErrWrongPassword
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.PassHash = hash
	f.users[user.Username] = user
	return nil
}

func (f *fakeService) UserByName(_ context.Context, username string) (models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *fakeService) {
	t.Helper()

	tok, err := auth.NewTokenizer("handler-test-secret", 30*time.Minute)
	require.NoError(t, err)

	svc := &fakeService{tok: tok, users: map[string]models.User{}}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokenAuth := jwtauth.New("HS256", tok.Secret(), nil)
	resolver := auth.NewResolver(log, tok, svc)

	h := New(log, svc, tokenAuth, resolver)

	r := chi.NewRouter()
	r.Route("/users", h.Register())
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := newTestRouter(t)

	// register alice
	rec := doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// duplicate username is rejected
	rec = doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// login
	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "alice", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)

	// get own profile with the token
	rec = doJSON(t, r, http.MethodGet, "/users/me", loginResp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	// a tampered token is rejected
	tampered := loginResp.Token[:len(loginResp.Token)-1]
	if loginResp.Token[len(loginResp.Token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}
	rec = doJSON(t, r, http.MethodGet, "/users/me", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "bob", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_NoToken(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_DeletedUser(t *testing.T) {
	r, svc := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "carol", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	// the account disappears while the token is still valid
	delete(svc.users, "carol")

	rec = doJSON(t, r, http.MethodGet, "/users/me", loginResp.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	r, svc := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "dave", "email": "dave@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	user := svc.users["dave"]
	user.FirstName = "David"
	user.LastName = "Jones"
	svc.users["dave"] = user

	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "dave", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	rec = doJSON(t, r, http.MethodPut, "/users/me", loginResp.Token, map[string]string{
		"first_name": "Dave",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Dave", updated.FirstName)
	assert.Equal(t, "Jones", updated.LastName)
}

func TestChangePassword(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/users/register", "", map[string]string{
		"username": "erin", "email": "erin@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "erin", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	// wrong current password
	rec = doJSON(t, r, http.MethodPut, "/users/password", loginResp.Token, map[string]string{
		"current_password": "nope", "new_password": "pw654321",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// correct current password
	rec = doJSON(t, r, http.MethodPut, "/users/password", loginResp.Token, map[string]string{
		"current_password": "pw123456", "new_password": "pw654321",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// old password no longer works, new one does
	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "erin", "password": "pw123456",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{
		"username": "erin", "password": "pw654321",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
