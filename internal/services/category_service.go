package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/store"
)

// categoryService owns Category records and keeps the owner's category list in step.
type categoryService struct {
	categories store.Store[models.Category]
	users      UserServicer
	log        *zap.SugaredLogger
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(categories store.Store[models.Category], users UserServicer) CategoryServicer {
	return &categoryService{categories: categories, users: users, log: logger.Named("category_service")}
}

// CreateCategory persists a category for userID and attaches it to the user.
// When the attach fails the category is deleted again.
func (s *categoryService) CreateCategory(ctx context.Context, userID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateStruct(categoryName{Name: name}); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, userID, "", name); err != nil {
		return nil, err
	}

	category := &models.Category{UserID: userID, Name: name}
	if _, err := s.categories.Insert(ctx, category); err != nil {
		return nil, s.writeError(name, err)
	}
	s.log.Infow("category persisted", "category_id", category.ID, "user_id", userID)

	if err := s.users.AttachCategory(ctx, userID, category.ID); err != nil {
		s.log.Errorw("failed to attach category, removing it",
			"error", err,
			"category_id", category.ID,
			"user_id", userID,
		)
		if delErr := s.categories.DeleteByID(ctx, category.ID); delErr != nil {
			s.log.Errorw("compensating delete failed",
				"error", delErr,
				"category_id", category.ID,
			)
		}
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category by ID
func (s *categoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(apperrors.KindCategory, id, err)
	}
	return category, nil
}

// ListUserCategories returns the categories owned by userID.
func (s *categoryService) ListUserCategories(ctx context.Context, userID string) ([]models.Category, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	categories, err := s.categories.FindBy(ctx, store.Where("user_id", userID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// RenameCategory changes the category name. Transactions keep the name they
// copied when they were written.
func (s *categoryService) RenameCategory(ctx context.Context, id, name string) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validateStruct(categoryName{Name: name}); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, category.UserID, id, name); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, s.writeError(name, err)
	}
	return category, nil
}

// DeleteCategory detaches the category from its owner, then deletes it.
// Transactions that still reference the category are left untouched.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.DetachCategory(ctx, category.UserID, id); err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}
		s.log.Warnw("owner of category no longer exists",
			"category_id", id,
			"user_id", category.UserID,
		)
	}

	if err := s.categories.DeleteByID(ctx, id); err != nil {
		return storeError(apperrors.KindCategory, id, err)
	}
	s.log.Infow("category deleted", "category_id", id, "user_id", category.UserID)
	return nil
}

// checkUnique fails when userID already has a category other than selfID named name.
func (s *categoryService) checkUnique(ctx context.Context, userID, selfID, name string) error {
	existing, err := s.categories.FindBy(ctx, store.Where("user_id", userID).And("name", name))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range existing {
		if c.ID != selfID {
			return apperrors.Duplicate(apperrors.KindCategory, "name", name)
		}
	}
	return nil
}

func (s *categoryService) writeError(name string, err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperrors.Duplicate(apperrors.KindCategory, "name", name)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
