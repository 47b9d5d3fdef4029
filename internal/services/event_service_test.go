package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lakbaycavite/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[primitive.ObjectID]*models.Event{}}
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) FindEventByTitle(ctx context.Context, title string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.Title == title {
			return event, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeEventRepo) UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if title, ok := set["title"].(string); ok {
		event.Title = title
	}
	if description, ok := set["description"].(string); ok {
		event.Description = description
	}
	event.UpdatedAt = time.Now()
	return event, nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ToggleEventStatus(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	event.IsActive = !event.IsActive
	return event, nil
}

func (f *fakeEventRepo) SetEventImage(ctx context.Context, id primitive.ObjectID, image *string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	event.Image = image
	return event, nil
}

func (f *fakeEventRepo) ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &models.EventList{Events: []*models.Event{}}
	for _, event := range f.events {
		if !filter.Window.Contains(event.Start) {
			continue
		}
		if filter.Status == models.EventStatusActive && !event.IsActive {
			continue
		}
		if filter.Status == models.EventStatusInactive && event.IsActive {
			continue
		}
		list.Events = append(list.Events, event)
		if event.IsActive {
			list.TotalActive++
		} else {
			list.TotalInactive++
		}
	}
	return list, nil
}

func (f *fakeEventRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, event := range f.events {
		if event.IsActive && event.End.Before(now) {
			event.IsActive = false
			count++
		}
	}
	return count, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (n *recordingNotifier) Publish(ctx context.Context, title, body string, metadata map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	return n.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEventService(repo models.EventRepo, notifier *recordingNotifier, now time.Time) *EventService {
	svc := NewEventService(repo, notifier, discardLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateEvent(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := newTestEventService(repo, notifier, now)

	input := models.EventInput{
		Start:       now.Add(48 * time.Hour),
		End:         now.Add(50 * time.Hour),
		Title:       "Tagaytay Food Crawl",
		Description: "A tour of the picnic grove stalls",
		Place:       "Picnic Grove",
	}

	created, err := svc.CreateEvent(context.Background(), input, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !created.IsActive {
		t.Error("new events must start active")
	}
	if created.ID.IsZero() {
		t.Error("created event has no id")
	}

	t.Run("duplicate title is a conflict", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), input, nil)
		if !models.IsConflict(err) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
	})

	t.Run("past start is rejected", func(t *testing.T) {
		bad := input
		bad.Title = "Yesterday's Parade"
		bad.Start = now.Add(-time.Hour)
		_, err := svc.CreateEvent(context.Background(), bad, nil)
		if !models.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("notifier failure does not fail the create", func(t *testing.T) {
		failing := &recordingNotifier{err: errors.New("push provider down")}
		svc := newTestEventService(repo, failing, now)
		good := input
		good.Title = "Silang Town Fiesta"
		if _, err := svc.CreateEvent(context.Background(), good, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestUpdateEventTitleConflict(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, &recordingNotifier{}, now)

	first, err := svc.CreateEvent(context.Background(), models.EventInput{
		Start:       now.Add(time.Hour),
		End:         now.Add(2 * time.Hour),
		Title:       "Corregidor Day Tour",
		Description: "Island tour with ferry transfer",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateEvent(context.Background(), models.EventInput{
		Start:       now.Add(time.Hour),
		End:         now.Add(2 * time.Hour),
		Title:       "Aguinaldo Shrine Visit",
		Description: "Guided shrine visit",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Renaming onto another event's title must be rejected.
	_, err = svc.UpdateEvent(context.Background(), second.ID.Hex(), models.EventInput{Title: first.Title})
	if !models.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// Re-submitting the event's own title is not a conflict.
	updated, err := svc.UpdateEvent(context.Background(), second.ID.Hex(), models.EventInput{
		Title:       second.Title,
		Description: "Guided shrine visit with museum access",
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Description != "Guided shrine visit with museum access" {
		t.Errorf("description not updated: %q", updated.Description)
	}
}

func TestToggleEventStatus(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeEventRepo()
	svc := newTestEventService(repo, &recordingNotifier{}, now)

	created, err := svc.CreateEvent(context.Background(), models.EventInput{
		Start:       now.Add(time.Hour),
		End:         now.Add(2 * time.Hour),
		Title:       "Maragondon Heritage Hike",
		Description: "Hike with local guides",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	toggled, err := svc.ToggleEventStatus(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if toggled.IsActive {
		t.Error("first toggle should deactivate")
	}

	toggled, err = svc.ToggleEventStatus(context.Background(), created.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.IsActive {
		t.Error("second toggle should reactivate")
	}

	if _, err := svc.ToggleEventStatus(context.Background(), "not-a-hex-id"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("malformed id should map to ErrNotFound, got %v", err)
	}
}

func TestListEventsRejectsBadStatus(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), &recordingNotifier{}, time.Now())

	if _, err := svc.ListEvents(context.Background(), "", "", "archived"); !models.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := svc.ListEvents(context.Background(), "2024-13-99", "", ""); !models.IsValidation(err) {
		t.Fatalf("expected ValidationError for bad date, got %v", err)
	}
}
