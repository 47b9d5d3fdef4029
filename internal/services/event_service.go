package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/notify"
	"go.mongodb.org/mongo-driver/bson"
)

type EventService struct {
	eventRepo models.EventRepo
	notifier  notify.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewEventService(eventRepo models.EventRepo, notifier notify.Notifier, logger *slog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEvent validates the input, enforces title uniqueness
// (case-sensitive exact match) and persists the event as active. The
// push notification is fired on a background goroutine; its failure
// never rolls back the creation.
func (es *EventService) CreateEvent(ctx context.Context, input models.EventInput, image *string) (*models.Event, error) {
	if err := models.ValidateNewEvent(input, es.now()); err != nil {
		return nil, err
	}

	existing, err := es.eventRepo.FindEventByTitle(ctx, input.Title)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("an event titled %q already exists", input.Title)
	}

	event := &models.Event{
		Start:       input.Start,
		End:         input.End,
		Title:       input.Title,
		Description: input.Description,
		Image:       image,
		Place:       input.Place,
		Barangay:    input.Barangay,
		Color:       input.Color,
		IsActive:    true,
	}

	created, err := es.eventRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		body := fmt.Sprintf("%s at %s on %s", created.Title, created.Place, created.Start.Format("Jan 2, 2006 3:04 PM"))
		err := es.notifier.Publish(nctx, "New event: "+created.Title, body, map[string]string{
			"eventId": created.ID.Hex(),
		})
		if err != nil {
			es.logger.Error("event push notification failed", "event_id", created.ID.Hex(), "error", err)
		}
	}()

	return created, nil
}

func (es *EventService) GetEvent(ctx context.Context, idHex string) (*models.Event, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.GetEventByID(ctx, id)
}

// UpdateEvent applies the provided fields. The title uniqueness check
// runs before the write so a conflicting update never lands.
func (es *EventService) UpdateEvent(ctx context.Context, idHex string, input models.EventInput) (*models.Event, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if strings.TrimSpace(input.Title) != "" {
		existing, err := es.eventRepo.FindEventByTitle(ctx, input.Title)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, models.NewConflictError("an event titled %q already exists", input.Title)
		}
		set["title"] = input.Title
	}
	if strings.TrimSpace(input.Description) != "" {
		set["description"] = input.Description
	}
	if strings.TrimSpace(input.Place) != "" {
		set["place"] = input.Place
	}
	if strings.TrimSpace(input.Barangay) != "" {
		set["barangay"] = input.Barangay
	}
	if strings.TrimSpace(input.Color) != "" {
		set["color"] = input.Color
	}
	if !input.Start.IsZero() {
		set["start"] = input.Start
	}
	if !input.End.IsZero() {
		set["end"] = input.End
	}

	return es.eventRepo.UpdateEvent(ctx, id, set)
}

func (es *EventService) DeleteEvent(ctx context.Context, idHex string) error {
	id, err := parseObjectID(idHex)
	if err != nil {
		return err
	}
	return es.eventRepo.DeleteEvent(ctx, id)
}

func (es *EventService) ToggleEventStatus(ctx context.Context, idHex string) (*models.Event, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.ToggleEventStatus(ctx, id)
}

func (es *EventService) SetEventImage(ctx context.Context, idHex string, imageURL string) (*models.Event, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.SetEventImage(ctx, id, &imageURL)
}

func (es *EventService) ClearEventImage(ctx context.Context, idHex string) (*models.Event, error) {
	id, err := parseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.SetEventImage(ctx, id, nil)
}

// ListEvents resolves the optional date window and status once into an
// immutable filter, then queries the events and the active/inactive
// counts against that same filter.
func (es *EventService) ListEvents(ctx context.Context, startDate, endDate, status string) (*models.EventList, error) {
	window, err := models.ResolveDateWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}
	filter, err := models.NewEventFilter(window, status)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.ListEvents(ctx, filter)
}
