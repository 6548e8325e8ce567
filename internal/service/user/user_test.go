package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"blog-platform/internal/auth"
	"blog-platform/internal/domain/models"
	"blog-platform/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	byName map[string]models.User
	byID   map[int64]models.User
	next   int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		byName: map[string]models.User{},
		byID:   map[int64]models.User{},
	}
}

func (f *fakeStorage) CreateUser(_ context.Context, username, email string, passHash []byte) (models.User, error) {
	if _, ok := f.byName[username]; ok {
		return models.User{}, storage.ErrUserExists
	}
	f.next++
	user := models.User{ID: f.next, Username: username, Email: email, PassHash: passHash}
	f.byName[username] = user
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeStorage) UserByName(_ context.Context, username string) (models.User, error) {
	user, ok := f.byName[username]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStorage) UserByID(_ context.Context, id int64) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStorage) UpdateProfile(_ context.Context, id int64, firstName, lastName *string) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	f.byID[id] = user
	f.byName[user.Username] = user
	return user, nil
}

func (f *fakeStorage) UpdatePassHash(_ context.Context, id int64, passHash []byte) error {
	user, ok := f.byID[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.PassHash = passHash
	f.byID[id] = user
	f.byName[user.Username] = user
	return nil
}

func newService(t *testing.T) (*Service, *fakeStorage) {
	t.Helper()

	tok, err := auth.NewTokenizer("service-test-secret", 30*time.Minute)
	require.NoError(t, err)

	st := newFakeStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, st, tok), st
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, st := newService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	stored := st.byName["alice"]
	assert.Equal(t, user.ID, stored.ID)
	assert.NotEqual(t, "pw123", string(stored.PassHash))
	assert.True(t, auth.VerifyPassword("pw123", stored.PassHash))
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "pw456")
	require.ErrorIs(t, err, ErrUserExists)
}

// Unknown user and wrong password must be indistinguishable to the caller.
func TestLogin_UniformFailure(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "pw123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesTokenForSubject(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	tok, err := auth.NewTokenizer("service-test-secret", 30*time.Minute)
	require.NoError(t, err)

	claims, err := tok.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestChangePassword(t *testing.T) {
	svc, st := newService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	user = st.byName["alice"]

	err = svc.ChangePassword(context.Background(), user, "wrong", "pw456")
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user, "pw123", "pw456")
	require.NoError(t, err)

	updated := st.byName["alice"]
	assert.False(t, auth.VerifyPassword("pw123", updated.PassHash))
	assert.True(t, auth.VerifyPassword("pw456", updated.PassHash))
}

func TestUpdateProfile_Partial(t *testing.T) {
	svc, _ := newService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	first := "Alice"
	last := "Smith"
	_, err = svc.UpdateProfile(context.Background(), user.ID, &first, &last)
	require.NoError(t, err)

	newFirst := "Alicia"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &newFirst, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
}
