package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/store"
)

type authMock struct {
	mock.Mock
}

func (m *authMock) Login(ctx context.Context, email, password string) (models.User, error) {
	args := m.Called(ctx, email, password)

	var user models.User
	if value := args.Get(0); value != nil {
		user = value.(models.User)
	}
	return user, args.Error(1)
}

func (m *authMock) Register(ctx context.Context, username, email, password string) error {
	return m.Called(ctx, username, email, password).Error(0)
}

func TestLogin_PersistsCredentials(t *testing.T) {
	client := new(authMock)
	client.On("Login", mock.Anything, "a@b.c", "pw").Return(models.User{Token: "tok", Data: json.RawMessage(`{"name":"A"}`)}, nil).Once()

	kv := store.NewMemory()
	s := New(kv, client)
	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))

	token, _ := kv.Get(store.KeyToken)
	require.Equal(t, "tok", token)
	details, _ := kv.Get(store.KeyUserDetails)
	require.Equal(t, `{"name":"A"}`, details)
	require.True(t, s.Authenticated())

	client.AssertExpectations(t)
}

func TestLogin_RequiresFields(t *testing.T) {
	s := New(store.NewMemory(), new(authMock))

	var verr *api.ValidationError
	require.ErrorAs(t, s.Login(context.Background(), "", "pw"), &verr)
	require.ErrorAs(t, s.Login(context.Background(), "a@b.c", ""), &verr)
}

func TestInvalidate_ClearsCredentialsExactlyOnce(t *testing.T) {
	kv := store.NewMemory()
	kv.Set(store.KeyToken, "tok")
	kv.Set(store.KeyUserDetails, "{}")

	s := New(kv, new(authMock))

	// First 401 invalidates; repeats are no-ops until the next login.
	require.True(t, s.Invalidate())
	require.False(t, s.Invalidate())
	require.False(t, s.Invalidate())

	token, _ := kv.Get(store.KeyToken)
	require.Empty(t, token)
	details, _ := kv.Get(store.KeyUserDetails)
	require.Empty(t, details)
	require.False(t, s.Authenticated())
}

func TestInvalidate_RearmsAfterLogin(t *testing.T) {
	client := new(authMock)
	client.On("Login", mock.Anything, "a@b.c", "pw").Return(models.User{Token: "tok"}, nil).Twice()

	kv := store.NewMemory()
	s := New(kv, client)

	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))
	require.True(t, s.Invalidate())

	require.NoError(t, s.Login(context.Background(), "a@b.c", "pw"))
	require.True(t, s.Invalidate())
}

func TestAuthenticated_RejectsJunkTokens(t *testing.T) {
	kv := store.NewMemory()
	s := New(kv, new(authMock))

	for _, junk := range []string{"", "null", "undefined"} {
		kv.Set(store.KeyToken, junk)
		require.False(t, s.Authenticated(), "token %q", junk)
	}
}
