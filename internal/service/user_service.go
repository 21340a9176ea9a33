package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"evently/internal/models"
	"evently/internal/repository"
)

type UserService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type NewUserInput struct {
	Name  string `json:"name" binding:"required,min=2,max=250"`
	Email string `json:"email" binding:"required,email,min=6,max=254"`
}

func (s *UserService) Create(ctx context.Context, in NewUserInput) (*models.User, error) {
	user := &models.User{Name: in.Name, Email: in.Email}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("email %q is already registered", in.Email)
		}
		return nil, err
	}
	s.Logger.Info("user created", zap.Uint64("user_id", user.ID))
	return user, nil
}

func (s *UserService) List(ctx context.Context, ids []uint64, limit, offset int) ([]models.User, int64, error) {
	params := repository.ListUsersParams{IDs: ids, Limit: limit, Offset: offset}
	users, err := s.Repo.ListUsers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountUsers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if _, err := getUser(ctx, s.Repo, id); err != nil {
		return err
	}
	return s.Repo.DeleteUser(ctx, id)
}
