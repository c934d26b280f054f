package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/app"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/storage"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

type testServer struct {
	t         *testing.T
	container *app.Container
	sender    *recordingSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{
			Name:                  "sistema-manutencao",
			Version:               "test",
			PublicURL:             "http://localhost:8080",
			TimeZone:              "UTC",
			RequestTimeoutSeconds: 5,
			BodyLimitBytes:        8 * 1024 * 1024,
		},
		Auth:         config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4},
		Notification: config.NotificationConfig{Email: "manutencao@sesc.org"},
		Tickets:      config.TicketConfig{NumberMaxAttempts: 3, MaxImageBytes: 5 * 1024 * 1024},
	}
	sender := &recordingSender{}
	container, err := app.New(context.Background(), cfg, zap.NewNop(),
		app.WithObjectStore(storage.NewLocalStoreFs(afero.NewMemMapFs(), "http://localhost:8080/uploads")),
		app.WithMailSender(sender),
	)
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return &testServer{t: t, container: container, sender: sender}
}

func (s *testServer) do(method, path string, body any, token string) (int, map[string]any) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.container.HTTP.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) staffToken() string {
	s.t.Helper()
	_, err := s.container.Auth.CreateStaff(context.Background(), service.StaffInput{
		Name: "Ana", Email: "ana@sesc.org", Password: "segredo123",
	})
	require.NoError(s.t, err)
	status, body := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@sesc.org", "password": "segredo123",
	}, "")
	require.Equal(s.t, http.StatusOK, status, body)
	return body["data"].(map[string]any)["access_token"].(string)
}

func (s *testServer) createTicket() (id, number string) {
	s.t.Helper()
	status, body := s.do(http.MethodPost, "/api/tickets", map[string]string{
		"requester_name":  "Maria Souza",
		"requester_email": "maria@example.com",
		"location":        "Ginásio",
		"problem_type":    "eletrica",
		"description":     "Lâmpada queimada na quadra principal",
		"urgency":         "alta",
	}, "")
	require.Equal(s.t, http.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	return data["id"].(string), data["ticket_number"].(string)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthProbes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "memory", deps["postgres"])
	assert.Equal(t, "disabled", deps["redis"])

	status, _ = s.do(http.MethodGet, "/health/metrics", nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestCreateAndLookupTicket(t *testing.T) {
	s := newTestServer(t)
	id, number := s.createTicket()
	assert.Regexp(t, `^\d{8}-0001$`, number)

	status, body := s.do(http.MethodGet, "/api/tickets/number/"+number, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["data"].(map[string]any)["id"])
	assert.Equal(t, "aberto", body["data"].(map[string]any)["status"])

	status, body = s.do(http.MethodGet, "/api/tickets/"+id+"/history", nil, "")
	require.Equal(t, http.StatusOK, status)
	history := body["data"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "Chamado criado", history[0].(map[string]any)["description"])

	status, body = s.do(http.MethodGet, "/api/tickets?status=aberto&search=quadra", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, body = s.do(http.MethodGet, "/api/tickets/stats", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["open"])

	assert.Len(t, s.sender.sent, 2)
}

func TestCreateTicketValidationEnvelope(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(http.MethodPost, "/api/tickets", map[string]string{
		"requester_name": "Maria",
		"urgency":        "urgente",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "urgency")
	assert.Contains(t, details, "requester_email")
}

func TestUnknownTicketAndRoute(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(http.MethodGet, "/api/tickets/number/20000101-0001", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = s.do(http.MethodGet, "/api/nao-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestStaffRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	id, _ := s.createTicket()

	status, body := s.do(http.MethodPatch, "/api/tickets/"+id+"/status", map[string]string{"status": "em_execucao"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, _ = s.do(http.MethodGet, "/api/settings", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStaffWorkflow(t *testing.T) {
	s := newTestServer(t)
	token := s.staffToken()
	id, _ := s.createTicket()

	status, body := s.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@sesc.org", body["data"].(map[string]any)["email"])

	status, body = s.do(http.MethodPost, "/api/technicians", map[string]string{"name": "João Lima"}, token)
	require.Equal(t, http.StatusCreated, status, body)
	technicianID := body["data"].(map[string]any)["id"].(string)

	status, _ = s.do(http.MethodPatch, "/api/tickets/"+id+"/technician", map[string]string{"technician_id": technicianID}, token)
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(http.MethodPatch, "/api/tickets/"+id+"/status", map[string]string{"status": "em_execucao"}, token)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodPatch, "/api/tickets/"+id+"/status", map[string]string{"status": "aberto"}, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(http.MethodPost, "/api/tickets/"+id+"/notes", map[string]string{"notes": "Troca do reator"}, token)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["data"].(map[string]any)["notes"], "Ana:\nTroca do reator")

	status, body = s.do(http.MethodPatch, "/api/tickets/"+id+"/estimated-completion", map[string]string{"estimated_completion": "2030-01-20"}, token)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodPatch, "/api/tickets/"+id+"/estimated-completion", map[string]string{"estimated_completion": "amanhã"}, token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(http.MethodGet, "/api/tickets/"+id+"/history", nil, "")
	require.Equal(t, http.StatusOK, status)
	history := body["data"].([]any)
	require.Len(t, history, 5)
	latest := history[0].(map[string]any)
	assert.Equal(t, "Previsão de conclusão definida para: 20/01/2030", latest["description"])
	assert.Equal(t, "Ana", latest["performed_by"])

	status, _ = s.do(http.MethodDelete, "/api/tickets/"+id, nil, token)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.do(http.MethodGet, "/api/tickets/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRatingFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.staffToken()
	id, _ := s.createTicket()

	status, body := s.do(http.MethodPost, "/api/tickets/"+id+"/rating", map[string]any{"rating": 5}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, _ = s.do(http.MethodPatch, "/api/tickets/"+id+"/status", map[string]string{"status": "finalizado"}, token)
	require.Equal(t, http.StatusOK, status)

	status, body = s.do(http.MethodGet, "/api/tickets/"+id+"/rating", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["data"])

	status, body = s.do(http.MethodPost, "/api/tickets/"+id+"/rating", map[string]any{"rating": 9}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(http.MethodPost, "/api/tickets/"+id+"/rating", map[string]any{"rating": 4, "comment": "Rápido"}, "")
	require.Equal(t, http.StatusCreated, status, body)

	status, body = s.do(http.MethodPost, "/api/tickets/"+id+"/rating", map[string]any{"rating": 1}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Este chamado já foi avaliado", body["error"].(map[string]any)["message"])

	status, body = s.do(http.MethodGet, "/api/ratings/stats", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["data"].(map[string]any)["average"])

	status, _ = s.do(http.MethodGet, "/api/ratings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, body = s.do(http.MethodGet, "/api/ratings", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.staffToken()

	status, body := s.do(http.MethodPut, "/api/settings/smtp_pass", map[string]string{"value": "super-secreta"}, token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "********", body["data"].(map[string]any)["value"])

	status, body = s.do(http.MethodPut, "/api/settings/notification_email", map[string]string{"value": "chefe@sesc.org"}, token)
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(http.MethodGet, "/api/settings/notification_email", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "chefe@sesc.org", body["data"].(map[string]any)["value"])

	status, body = s.do(http.MethodGet, "/api/settings", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 2)

	status, _ = s.do(http.MethodGet, "/api/settings/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(http.MethodPost, "/api/settings/test-email", nil, token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "chefe@sesc.org", body["data"].(map[string]any)["to"])
}

func TestStoredSettingKeysSurviveLaterRequests(t *testing.T) {
	s := newTestServer(t)
	token := s.staffToken()

	for key, value := range map[string]string{"smtp_host": "smtp.sesc.org", "notification_email": "chefe@sesc.org"} {
		status, body := s.do(http.MethodPut, "/api/settings/"+key, map[string]string{"value": value}, token)
		require.Equal(t, http.StatusOK, status, body)
	}

	status, _ := s.do(http.MethodGet, "/api/settings/missing", nil, token)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = s.do(http.MethodGet, "/api/tickets/number/20240101-0001", nil, "")
	require.Equal(t, http.StatusNotFound, status)

	status, body := s.do(http.MethodGet, "/api/settings", nil, token)
	require.Equal(t, http.StatusOK, status)
	keys := []string{}
	for _, item := range body["data"].([]any) {
		keys = append(keys, item.(map[string]any)["key"].(string))
	}
	assert.ElementsMatch(t, []string{"smtp_host", "notification_email"}, keys)

	status, body = s.do(http.MethodGet, "/api/settings/notification_email", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "chefe@sesc.org", body["data"].(map[string]any)["value"])
}
