package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
)

// Auth validates credentials, hashes passwords and resolves user identities.
// It holds no state beyond its collaborators.
type Auth struct {
	userStore  model.UserStore
	bcryptCost int
	logger     *logger.Logger
}

func NewAuth(userStore model.UserStore, bcryptCost int, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:  userStore,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register validates the credentials, rejects duplicate emails, hashes the
// password and persists a new user. Exactly one row is created on success,
// none on failure.
func (a *Auth) Register(ctx context.Context, email, password string) (uuid.UUID, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if err := validateCredentials(email, password); err != nil {
		return uuid.Nil, err
	}

	_, err := a.userStore.FindByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return uuid.Nil, model.NewValidationError("Email already exists!")
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to find user by email",
			"email", email,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	savedUser, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrDuplicateEmail) {
		// Lost the existence-check race: another registration for the same
		// email committed between our check and insert.
		a.logger.Info("Auth service: concurrent registration won the email",
			"email", email)
		return uuid.Nil, model.NewValidationError("Email already exists!")
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return uuid.Nil, err
	}

	a.logger.Info("Auth service: user registered successfully",
		"email", email,
		"user_id", savedUser.ID)

	return savedUser.ID, nil
}

// Login validates the credentials and verifies the password against the
// stored hash. The hash never leaves this method.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Identity, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", email)

	if err := validateCredentials(email, password); err != nil {
		return model.Identity{}, err
	}

	user, err := a.userStore.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.NewValidationError("Email does not exist")
	}
	if err != nil {
		a.logger.Error("Auth service: failed to find user by email",
			"email", email,
			"error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.Identity{}, model.NewValidationError("Password is invalid")
	}

	a.logger.Info("Auth service: user logged in successfully",
		"email", email,
		"user_id", user.ID)

	return model.Identity{UserID: user.ID, Email: user.Email}, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return model.NewValidationError("Email is required")
	}
	if len(email) < 3 {
		return model.NewValidationError("Email must be at least 3 characters long")
	}
	if password == "" {
		return model.NewValidationError("Password is required")
	}
	if len(password) < 6 {
		return model.NewValidationError("Password must be at least 6 characters long")
	}
	return nil
}
