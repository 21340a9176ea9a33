package service

import (
	"context"

	"evently/internal/models"
	"evently/internal/repository"
)

func getUser(ctx context.Context, repo repository.Repository, id uint64) (*models.User, error) {
	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundf("user %d not found", id)
	}
	return user, nil
}

func getCategory(ctx context.Context, repo repository.Repository, id uint64) (*models.Category, error) {
	category, err := repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, NotFoundf("category %d not found", id)
	}
	return category, nil
}

func getEvent(ctx context.Context, repo repository.Repository, id uint64) (*models.Event, error) {
	event, err := repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, NotFoundf("event %d not found", id)
	}
	return event, nil
}
