package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evently/internal/models"
	"evently/internal/repository"
)

type CategoryService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type CategoryInput struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: in.Name}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("category name %q is already taken", in.Name)
		}
		return nil, err
	}
	s.Logger.Info("category created", zap.Uint64("category_id", category.ID))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint64, in CategoryInput) (*models.Category, error) {
	category, err := getCategory(ctx, s.Repo, id)
	if err != nil {
		return nil, err
	}
	category.Name = in.Name
	if err := s.Repo.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("category name %q is already taken", in.Name)
		}
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that still has events attached.
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	if _, err := getCategory(ctx, s.Repo, id); err != nil {
		return err
	}
	attached, err := s.Repo.CountEventsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if attached > 0 {
		return Conflictf("category %d still has %d events", id, attached)
	}
	return s.Repo.DeleteCategory(ctx, id)
}

func (s *CategoryService) GetByID(ctx context.Context, id uint64) (*models.Category, error) {
	return getCategory(ctx, s.Repo, id)
}

func (s *CategoryService) List(ctx context.Context, limit, offset int) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, limit, offset)
}
