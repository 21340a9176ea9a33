package service

import (
	"context"

	"go.uber.org/zap"

	"evently/internal/models"
	"evently/internal/repository"
)

type CompilationService struct {
	Repo   repository.Repository
	Enrich *Enricher
	Logger *zap.Logger
}

type NewCompilationInput struct {
	Title    string   `json:"title" binding:"required,min=1,max=50"`
	Pinned   bool     `json:"pinned"`
	EventIDs []uint64 `json:"events"`
}

type UpdateCompilationInput struct {
	Title    *string  `json:"title" binding:"omitempty,min=1,max=50"`
	Pinned   *bool    `json:"pinned"`
	EventIDs []uint64 `json:"events"`
}

func (s *CompilationService) Create(ctx context.Context, in NewCompilationInput) (*models.Compilation, error) {
	events, err := s.resolveEvents(ctx, in.EventIDs)
	if err != nil {
		return nil, err
	}
	compilation := &models.Compilation{
		Title:  in.Title,
		Pinned: in.Pinned,
		Events: events,
	}
	if err := s.Repo.CreateCompilation(ctx, compilation); err != nil {
		return nil, err
	}
	s.Logger.Info("compilation created", zap.Uint64("compilation_id", compilation.ID))
	return s.enrichOne(ctx, compilation)
}

func (s *CompilationService) Update(ctx context.Context, id uint64, in UpdateCompilationInput) (*models.Compilation, error) {
	compilation, err := s.getCompilation(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		compilation.Title = *in.Title
	}
	if in.Pinned != nil {
		compilation.Pinned = *in.Pinned
	}
	if err := s.Repo.SaveCompilation(ctx, compilation); err != nil {
		return nil, err
	}
	if in.EventIDs != nil {
		events, err := s.resolveEvents(ctx, in.EventIDs)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.ReplaceCompilationEvents(ctx, compilation, events); err != nil {
			return nil, err
		}
		compilation.Events = events
	}
	return s.enrichOne(ctx, compilation)
}

func (s *CompilationService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.getCompilation(ctx, id); err != nil {
		return err
	}
	return s.Repo.DeleteCompilation(ctx, id)
}

func (s *CompilationService) GetByID(ctx context.Context, id uint64) (*models.Compilation, error) {
	compilation, err := s.getCompilation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, compilation)
}

func (s *CompilationService) List(ctx context.Context, pinned *bool, limit, offset int) ([]models.Compilation, int64, error) {
	params := repository.ListCompilationsParams{Pinned: pinned, Limit: limit, Offset: offset}
	compilations, err := s.Repo.ListCompilations(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountCompilations(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	for i := range compilations {
		compilations[i].Events, err = s.Enrich.Enrich(ctx, compilations[i].Events)
		if err != nil {
			return nil, 0, err
		}
	}
	return compilations, total, nil
}

func (s *CompilationService) resolveEvents(ctx context.Context, ids []uint64) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	events, err := s.Repo.ListEventsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(events) != len(ids) {
		found := make(map[uint64]bool, len(events))
		for _, ev := range events {
			found[ev.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, NotFoundf("event %d not found", id)
			}
		}
	}
	return events, nil
}

func (s *CompilationService) getCompilation(ctx context.Context, id uint64) (*models.Compilation, error) {
	compilation, err := s.Repo.GetCompilationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compilation == nil {
		return nil, NotFoundf("compilation %d not found", id)
	}
	return compilation, nil
}

func (s *CompilationService) enrichOne(ctx context.Context, compilation *models.Compilation) (*models.Compilation, error) {
	events, err := s.Enrich.Enrich(ctx, compilation.Events)
	if err != nil {
		return nil, err
	}
	compilation.Events = events
	return compilation, nil
}
