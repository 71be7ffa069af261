package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/store"
)

// userService owns User records and their back-reference lists.
type userService struct {
	users store.Store[models.User]
	cost  int
	log   *zap.SugaredLogger
}

// NewUserService creates a new UserServicer. Secrets are hashed with bcrypt at
// the given cost.
func NewUserService(users store.Store[models.User], bcryptCost int) UserServicer {
	return &userService{users: users, cost: bcryptCost, log: logger.Named("user_service")}
}

// Register creates a user with empty reference lists.
func (s *userService) Register(ctx context.Context, handle, email, secret string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateStruct(registration{Handle: handle, Email: email, Secret: secret}); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, "", handle, email); err != nil {
		return nil, err
	}

	hash, err := s.hashSecret(secret)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Handle:         handle,
		Email:          email,
		SecretHash:     hash,
		CategoryIDs:    []string{},
		TransactionIDs: []string{},
	}
	if _, err := s.users.Insert(ctx, user); err != nil {
		return nil, s.writeError(ctx, "", handle, email, err)
	}

	s.log.Infow("user registered", "user_id", user.ID, "handle", user.Handle)
	return user, nil
}

// Authenticate returns the user with the given email when secret matches.
// Unknown emails and wrong secrets fail with the same error.
func (s *userService) Authenticate(ctx context.Context, email, secret string) (*models.User, error) {
	user, err := s.findOne(ctx, "email", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || secret == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SecretHash), []byte(secret)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(apperrors.KindUser, id, err)
	}
	return user, nil
}

// GetUserByHandle retrieves a user by handle
func (s *userService) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	user, err := s.findOne(ctx, "handle", handle)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound(apperrors.KindUser, handle)
	}
	return user, nil
}

// ListUsers returns every user in store order.
func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.FindBy(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// UpdateUser replaces handle and email. An empty secret keeps the stored hash.
func (s *userService) UpdateUser(ctx context.Context, id, handle, email, secret string) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	if err := validateStruct(profileUpdate{Handle: handle, Email: email, Secret: secret}); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, id, handle, email); err != nil {
		return nil, err
	}

	user.Handle = handle
	user.Email = email
	if secret != "" {
		hash, err := s.hashSecret(secret)
		if err != nil {
			return nil, err
		}
		user.SecretHash = hash
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, s.writeError(ctx, id, handle, email, err)
	}
	return user, nil
}

// DeleteUser removes the user record only. Owned categories and transactions
// are left in place.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return storeError(apperrors.KindUser, id, err)
	}
	s.log.Infow("user deleted", "user_id", id)
	return nil
}

// AttachCategory appends categoryID to the user's category list.
func (s *userService) AttachCategory(ctx context.Context, userID, categoryID string) error {
	return s.mutate(ctx, userID, func(u *models.User) bool { return u.AddCategory(categoryID) })
}

// DetachCategory removes categoryID from the user's category list.
func (s *userService) DetachCategory(ctx context.Context, userID, categoryID string) error {
	return s.mutate(ctx, userID, func(u *models.User) bool { return u.RemoveCategory(categoryID) })
}

// AttachTransaction appends transactionID to the user's transaction list.
func (s *userService) AttachTransaction(ctx context.Context, userID, transactionID string) error {
	return s.mutate(ctx, userID, func(u *models.User) bool { return u.AddTransaction(transactionID) })
}

// DetachTransaction removes transactionID from the user's transaction list.
func (s *userService) DetachTransaction(ctx context.Context, userID, transactionID string) error {
	return s.mutate(ctx, userID, func(u *models.User) bool { return u.RemoveTransaction(transactionID) })
}

// mutate loads the user, applies fn and saves only when fn reports a change.
func (s *userService) mutate(ctx context.Context, userID string, fn func(*models.User) bool) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !fn(user) {
		return nil
	}
	if err := s.users.Save(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// hashSecret bcrypt-hashes secret. bcrypt reads at most 72 bytes, so longer
// secrets are rejected rather than silently truncated.
func (s *userService) hashSecret(secret string) (string, error) {
	if len(secret) > maxSecretBytes {
		return "", apperrors.InvalidArgument("secret", fmt.Sprintf("must be at most %d bytes", maxSecretBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.InvalidArgument("secret", fmt.Sprintf("must be at most %d bytes", maxSecretBytes))
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hash), nil
}

// findOne returns the single user whose field equals value, or nil.
func (s *userService) findOne(ctx context.Context, field, value string) (*models.User, error) {
	users, err := s.users.FindBy(ctx, store.Where(field, value))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// checkUnique fails when another user than selfID already holds handle or email.
func (s *userService) checkUnique(ctx context.Context, selfID, handle, email string) error {
	existing, err := s.findOne(ctx, "handle", handle)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Duplicate(apperrors.KindUser, "handle", handle)
	}

	existing, err = s.findOne(ctx, "email", email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.Duplicate(apperrors.KindUser, "email", email)
	}
	return nil
}

// writeError maps a failed insert or save. A unique-index violation means a
// concurrent writer took the handle or email after checkUnique passed.
func (s *userService) writeError(ctx context.Context, selfID, handle, email string, err error) error {
	if !errors.Is(err, store.ErrDuplicate) {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if uniqErr := s.checkUnique(ctx, selfID, handle, email); uniqErr != nil {
		return uniqErr
	}
	return apperrors.Wrap(apperrors.ErrDuplicate, err)
}
