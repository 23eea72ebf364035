package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/credisim/credisim-server/internal/mocks"
	"github.com/credisim/credisim-server/internal/model"
	"github.com/credisim/credisim-server/internal/testutil"
)

func TestAuth_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "empty email", email: "", password: "secret1", wantMsg: "Email is required"},
		{name: "short email", email: "ab", password: "secret1", wantMsg: "Email must be at least 3 characters long"},
		{name: "empty password", email: "a@b.com", password: "", wantMsg: "Password is required"},
		{name: "short password", email: "a@b.com", password: "12345", wantMsg: "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := &mocks.UserStore{}
			a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

			_, err := a.Register(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, model.IsValidationError(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuth_Register_NewUser(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	savedID := uuid.New()
	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		if u.ID == uuid.Nil || u.Email != "a@b.com" {
			return false
		}
		// The stored hash must verify against the plaintext and never equal it.
		return u.PasswordHash != "secret1" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(model.User{ID: savedID, Email: "a@b.com"}, nil)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	id, err := a.Register(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, savedID, id)
	userStore.AssertExpectations(t)
}

func TestAuth_Register_ExistingEmail(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	userStore.On("FindByEmail", mock.Anything, "taken@b.com").Return(model.User{ID: uuid.New(), Email: "taken@b.com"}, nil)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	_, err := a.Register(ctx, "taken@b.com", "secret1")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, "Email already exists!", err.Error())
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_LostInsertRace(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	userStore.On("FindByEmail", mock.Anything, "race@b.com").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrDuplicateEmail)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	_, err := a.Register(ctx, "race@b.com", "secret1")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, "Email already exists!", err.Error())
}

func TestAuth_Register_ConnectionErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.NewConnectionError("database is unreachable", nil))

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	_, err := a.Register(ctx, "a@b.com", "secret1")
	require.Error(t, err)
	assert.True(t, model.IsConnectionError(err))
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	userStore.On("FindByEmail", mock.Anything, "ghost@b.com").Return(model.User{}, model.ErrNotFound)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	_, err := a.Login(ctx, "ghost@b.com", "secret1")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, "Email does not exist", err.Error())
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		PasswordHash: string(hash),
	}, nil)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	_, err = a.Login(ctx, "a@b.com", "wrong1")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Equal(t, "Password is invalid", err.Error())
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	userStore := &mocks.UserStore{}
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	userStore.On("FindByEmail", mock.Anything, "a@b.com").Return(model.User{
		ID:           userID,
		Email:        "a@b.com",
		PasswordHash: string(hash),
	}, nil)

	a := NewAuth(userStore, bcrypt.MinCost, testutil.MakeNoopLogger())

	identity, err := a.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: userID, Email: "a@b.com"}, identity)
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()

	var stored model.User
	registerStore := &mocks.UserStore{}
	registerStore.On("FindByEmail", mock.Anything, "new@b.com").Return(model.User{}, model.ErrNotFound)
	registerStore.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(model.User)
		}).
		Return(model.User{ID: uuid.New(), Email: "new@b.com"}, nil)

	id, err := NewAuth(registerStore, bcrypt.MinCost, testutil.MakeNoopLogger()).
		Register(ctx, "new@b.com", "secret1")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	loginStore := &mocks.UserStore{}
	loginStore.On("FindByEmail", mock.Anything, "new@b.com").Return(stored, nil)

	identity, err := NewAuth(loginStore, bcrypt.MinCost, testutil.MakeNoopLogger()).
		Login(ctx, "new@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, identity.UserID)
	assert.Equal(t, "new@b.com", identity.Email)
}
