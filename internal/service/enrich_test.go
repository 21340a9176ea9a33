package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"evently/internal/client/stats"
	"evently/internal/models"
)

type fakeStats struct {
	rows    []stats.ViewStats
	err     error
	calls   int
	lastURI []string
}

func (f *fakeStats) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStats, error) {
	f.calls++
	f.lastURI = uris
	return f.rows, f.err
}

func TestEnrichAttachesDerivedCounts(t *testing.T) {
	repo := newStubRepo()
	owner := seedUser(repo, "owner")
	guest := seedUser(repo, "guest")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	reqSvc := newRequestService(repo)
	if _, err := reqSvc.Create(context.Background(), guest, eventID); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = repo.CreateComment(context.Background(), &models.Comment{EventID: eventID, AuthorID: guest, Text: "looking forward to it"})
	_ = repo.CreateComment(context.Background(), &models.Comment{EventID: eventID, AuthorID: owner, Text: "see you there"})

	collector := &fakeStats{rows: []stats.ViewStats{{URI: EventURI(eventID), Hits: 7}}}
	enricher := &Enricher{Repo: repo, Stats: collector}

	ev, _ := repo.GetEventByID(context.Background(), eventID)
	out, err := enricher.Enrich(context.Background(), []models.Event{*ev})
	if err != nil {
		t.Fatalf("enrich failed: %v", err)
	}
	if out[0].Views != 7 {
		t.Fatalf("views = %d, want 7", out[0].Views)
	}
	if out[0].ConfirmedRequests != 1 {
		t.Fatalf("confirmedRequests = %d, want 1", out[0].ConfirmedRequests)
	}
	if out[0].Comments != 2 {
		t.Fatalf("comments = %d, want 2", out[0].Comments)
	}
	if len(collector.lastURI) != 1 || collector.lastURI[0] != EventURI(eventID) {
		t.Fatalf("collector queried with %v", collector.lastURI)
	}
}

func TestEnrichDefaultsViewsToZeroOnCollectorFailure(t *testing.T) {
	repo := newStubRepo()
	owner := seedUser(repo, "owner")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	collector := &fakeStats{err: errors.New("collector down")}
	enricher := &Enricher{Repo: repo, Stats: collector}

	ev, _ := repo.GetEventByID(context.Background(), eventID)
	out, err := enricher.Enrich(context.Background(), []models.Event{*ev})
	if err != nil {
		t.Fatalf("enrich must not fail on collector errors: %v", err)
	}
	if out[0].Views != 0 {
		t.Fatalf("views = %d, want 0", out[0].Views)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	collector := &fakeStats{}
	enricher := &Enricher{Repo: newStubRepo(), Stats: collector}
	out, err := enricher.Enrich(context.Background(), nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("got %v, %v", out, err)
	}
	if collector.calls != 0 {
		t.Fatalf("collector queried for empty input")
	}
}

func TestEnrichZeroesStaleDerivedFields(t *testing.T) {
	repo := newStubRepo()
	owner := seedUser(repo, "owner")
	eventID := seedPublishedEvent(repo, owner, 0, true)

	enricher := &Enricher{Repo: repo, Stats: &fakeStats{}}

	ev, _ := repo.GetEventByID(context.Background(), eventID)
	ev.Views = 99
	ev.ConfirmedRequests = 99
	ev.Comments = 99
	out, err := enricher.Enrich(context.Background(), []models.Event{*ev})
	if err != nil {
		t.Fatalf("enrich failed: %v", err)
	}
	if out[0].Views != 0 || out[0].ConfirmedRequests != 0 || out[0].Comments != 0 {
		t.Fatalf("stale derived fields survived: %+v", out[0])
	}
}
