package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/events"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository/memory"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/storage"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
}

// Now advances one second per call so orderings are deterministic.
func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, data []byte, _ string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return storage.Object{}, f.putErr
	}
	f.objects[key] = data
	return storage.Object{Key: key, URL: "/uploads/" + key}, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{PublicURL: "http://localhost:8080", TimeZone: "UTC"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
		Notification: config.NotificationConfig{
			Email:                   "manutencao@sesc.org",
			RatingRequestOnFinalize: true,
		},
		SMTP:    config.SMTPConfig{Host: "smtp.env.local", Port: 2525, Username: "env", Password: "env-pass"},
		Tickets: config.TicketConfig{NumberMaxAttempts: 3, MaxImageBytes: 5 * 1024 * 1024},
	}
}

type harness struct {
	cfg           config.Config
	store         *memory.Store
	clock         *testClock
	objects       *fakeObjectStore
	sender        *fakeSender
	dispatcher    events.Dispatcher
	tickets       *TicketService
	ratings       *RatingService
	technicians   *TechnicianService
	settings      *SettingsService
	notifications *NotificationService
	auth          *AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithConfig(t, testConfig())
}

func newHarnessWithConfig(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	clock := newTestClock()
	store := memory.NewStore().WithClock(clock.Now)
	h := &harness{
		cfg:        cfg,
		store:      store,
		clock:      clock,
		objects:    newFakeObjectStore(),
		sender:     &fakeSender{},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	logger := zap.NewNop()

	h.tickets = NewTicketService(cfg, TicketDependencies{
		TicketRepo:     store.Tickets(),
		HistoryRepo:    store.History(),
		TechnicianRepo: store.Technicians(),
		ObjectStore:    h.objects,
		Dispatcher:     h.dispatcher,
		Logger:         logger,
		Clock:          clock.Now,
	})
	h.ratings = NewRatingService(store.Ratings(), store.Tickets(), h.dispatcher, logger)
	h.technicians = NewTechnicianService(store.Technicians())
	h.settings = NewSettingsService(store.Settings(), cfg, logger)

	composer, err := mail.NewComposer(cfg.App.PublicURL)
	require.NoError(t, err)
	h.notifications = NewNotificationService(cfg, NotificationDependencies{
		Dispatcher: h.dispatcher,
		Composer:   composer,
		Sender:     h.sender,
		Settings:   h.settings,
		Logger:     logger,
		Clock:      clock.Now,
	})
	h.notifications.RegisterHandlers()

	h.auth = NewAuthService(cfg, store.Staff(), auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes), logger)
	return h
}

func validTicketInput() TicketCreateInput {
	return TicketCreateInput{
		RequesterName:  "Maria Souza",
		RequesterEmail: "maria@example.com",
		Location:       "Ginásio",
		ProblemType:    "eletrica",
		Description:    "Lâmpada queimada na quadra principal",
		Urgency:        "alta",
	}
}

var errBoom = errors.New("boom")
