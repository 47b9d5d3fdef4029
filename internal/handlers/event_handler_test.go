package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/lakbaycavite/server/internal/models"
	"github.com/lakbaycavite/server/internal/notify"
	"github.com/lakbaycavite/server/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type eventRepoStub struct {
	mu      sync.Mutex
	created *models.Event
}

func (s *eventRepoStub) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	s.created = event
	return event, nil
}

func (s *eventRepoStub) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return nil, models.ErrNotFound
}

func (s *eventRepoStub) FindEventByTitle(ctx context.Context, title string) (*models.Event, error) {
	return nil, models.ErrNotFound
}

func (s *eventRepoStub) UpdateEvent(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Event, error) {
	return nil, models.ErrNotFound
}

func (s *eventRepoStub) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	return models.ErrNotFound
}

func (s *eventRepoStub) ToggleEventStatus(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return nil, models.ErrNotFound
}

func (s *eventRepoStub) SetEventImage(ctx context.Context, id primitive.ObjectID, image *string) (*models.Event, error) {
	return nil, models.ErrNotFound
}

func (s *eventRepoStub) ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventList, error) {
	return &models.EventList{Events: []*models.Event{}}, nil
}

func (s *eventRepoStub) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// A broken image store must not lose the event: creation proceeds
// without the image so the admin can re-upload it later.
func TestCreateEventSurvivesImageStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	}))
	defer storage.Close()

	cld, err := cloudinary.NewFromParams("test-cloud", "key", "secret")
	if err != nil {
		t.Fatalf("cloudinary init: %v", err)
	}
	cld.Config.API.UploadPrefix = storage.URL

	repo := &eventRepoStub{}
	logger := quietLogger()
	svc := services.NewEventService(repo, notify.NewLogNotifier(logger), logger)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	start := time.Now().Add(time.Hour)
	_ = form.WriteField("title", "Coastal Cleanup")
	_ = form.WriteField("description", "Beach cleanup drive along the bay")
	_ = form.WriteField("place", "Kawit")
	_ = form.WriteField("start", start.Format(time.RFC3339))
	_ = form.WriteField("end", start.Add(2*time.Hour).Format(time.RFC3339))
	part, err := form.CreateFormFile("image", "banner.jpg")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte("not a real jpeg"))
	_ = form.Close()

	router := gin.New()
	router.POST("/event", CreateEvent(svc, cld))

	req := httptest.NewRequest(http.MethodPost, "/event", body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	repo.mu.Lock()
	created := repo.created
	repo.mu.Unlock()
	if created == nil {
		t.Fatal("event was not persisted")
	}
	if created.Image != nil {
		t.Errorf("image = %q, want none after the failed upload", *created.Image)
	}
}
