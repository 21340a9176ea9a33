package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"evently/internal/cache"
	"evently/internal/client/stats"
	"evently/internal/models"
	"evently/internal/repository"
)

// StatsReader is the slice of the stats collector the enricher needs.
type StatsReader interface {
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStats, error)
}

// Enricher attaches the derived read-model fields (views, confirmed requests,
// comment counts) to event aggregates. Every service method that hands events
// across the API boundary runs them through here first.
type Enricher struct {
	Repo   repository.Repository
	Stats  StatsReader
	Views  *cache.ViewCache
	Flags  *SystemSettingsService
	Logger *zap.Logger
}

// EventURI is the canonical detail URI an event's hits are recorded under.
func EventURI(eventID uint64) string {
	return fmt.Sprintf("/events/%d", eventID)
}

// Enrich recomputes the derived fields for every event in place. Ledger and
// comment counts come from the local store and are authoritative; view counts
// come from the stats collector and degrade to zero on any failure.
func (e *Enricher) Enrich(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if e == nil || len(events) == 0 {
		return events, nil
	}

	ids := make([]uint64, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
		events[i].Views = 0
		events[i].ConfirmedRequests = 0
		events[i].Comments = 0
	}

	views := e.fetchViews(ctx, events)

	confirmed, err := e.Repo.CountConfirmedByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	confirmedByEvent := make(map[uint64]int64, len(confirmed))
	for _, row := range confirmed {
		confirmedByEvent[row.EventID] = row.Count
	}

	comments, err := e.Repo.CountCommentsByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByEvent := make(map[uint64]int64, len(comments))
	for _, row := range comments {
		commentsByEvent[row.EventID] = row.Count
	}

	for i := range events {
		events[i].Views = views[events[i].ID]
		events[i].ConfirmedRequests = confirmedByEvent[events[i].ID]
		events[i].Comments = commentsByEvent[events[i].ID]
	}
	return events, nil
}

// fetchViews resolves hit counts per event id, consulting the cache first and
// querying the collector for the rest. A collector failure leaves the missing
// counts at zero; view counts are advisory and must never fail a read.
func (e *Enricher) fetchViews(ctx context.Context, events []models.Event) map[uint64]int64 {
	views := make(map[uint64]int64, len(events))
	if e.Stats == nil {
		return views
	}

	useCache := e.Views != nil && (e.Flags == nil || e.Flags.IsEnabled(ctx, FeatureViewCache, true))

	var missing []string
	uriToID := make(map[string]uint64, len(events))
	start := time.Time{}
	for i := range events {
		uri := EventURI(events[i].ID)
		uriToID[uri] = events[i].ID
		if useCache {
			if hits, ok := e.Views.Get(ctx, uri); ok {
				views[events[i].ID] = hits
				continue
			}
		}
		missing = append(missing, uri)
		if start.IsZero() || events[i].CreatedOn.Before(start) {
			start = events[i].CreatedOn
		}
	}
	if len(missing) == 0 {
		return views
	}

	rows, err := e.Stats.GetStats(ctx, start, time.Now().UTC(), missing, true)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("stats collector unavailable, defaulting views to 0", zap.Error(err))
		}
		return views
	}
	for _, row := range rows {
		id, ok := uriToID[row.URI]
		if !ok {
			continue
		}
		views[id] = row.Hits
		if useCache {
			e.Views.Set(ctx, row.URI, row.Hits)
		}
	}
	if useCache {
		// Cache zero counts too so cold events do not re-query every read.
		for _, uri := range missing {
			if id, ok := uriToID[uri]; ok {
				if _, seen := views[id]; !seen {
					e.Views.Set(ctx, uri, 0)
				}
			}
		}
	}
	return views
}
