package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cnChenKai/wenjianne/internal/api/handlers"
	"github.com/cnChenKai/wenjianne/internal/config"
	"github.com/cnChenKai/wenjianne/internal/database"
	"github.com/cnChenKai/wenjianne/internal/repository"
	"github.com/cnChenKai/wenjianne/internal/server"
	"github.com/cnChenKai/wenjianne/internal/service"
)

// setupTestServer поднимает PostgreSQL контейнер, собирает полный стек
// (репозитории, сервисы, handlers, роутер) и возвращает httptest.Server.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("wenjianne_test"),
		postgres.WithUsername("wenjianne"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	os.Setenv("WJ_DB_HOST", host)
	os.Setenv("WJ_DB_PORT", port.Port())
	os.Setenv("WJ_DB_NAME", "wenjianne_test")
	os.Setenv("WJ_DB_USER", "wenjianne")
	os.Setenv("WJ_DB_PASSWORD", "test-password")
	os.Setenv("WJ_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	txRunner := repository.NewTxRunner(pool)
	docRepo := repository.NewDocumentRepository(pool)
	flowRepo := repository.NewFlowRepository(pool, txRunner)
	personnelRepo := repository.NewPersonnelRepository(pool)
	dashRepo := repository.NewDashboardRepository(pool)

	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(database.NewReadinessChecker(pool)),
		service.NewDocumentService(docRepo, logger),
		service.NewFlowService(flowRepo, docRepo, logger),
		service.NewDashboardService(dashRepo, cfg.NearDeadlineWindowDays, logger),
		service.NewPersonnelService(personnelRepo, logger),
		logger,
	)

	srv := httptest.NewServer(server.NewRouter(apiHandler))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON выполняет запрос с JSON-телом и разбирает JSON-ответ в out.
func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка сериализации тела: %v", err)
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания запроса: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Ошибка выполнения запроса: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Ошибка разбора ответа: %v", err)
		}
	}
	return resp
}

// TestDocumentLifecycle проверяет полный цикл: постановка на учёт,
// передача, возврат, завершение, повторное завершение.
func TestDocumentLifecycle(t *testing.T) {
	srv := setupTestServer(t)

	// Постановка на учёт
	var created struct {
		Message      string `json:"message"`
		ID           int64  `json:"id"`
		SerialNumber string `json:"serial_number"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"name":             "Приказ о командировке",
		"originating_unit": "Отдел кадров",
		"deadline":         "2026-12-31",
		"category":         "приказ",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /documents статус = %d, ожидался 201", resp.StatusCode)
	}
	if created.Message != "Document created successfully" {
		t.Errorf("message = %q", created.Message)
	}
	if created.SerialNumber == "" {
		t.Error("serial_number пуст")
	}

	docURL := fmt.Sprintf("%s/documents/%d", srv.URL, created.ID)

	// Передача
	var sent struct {
		Message    string `json:"message"`
		FlowRecord struct {
			ID         int64  `json:"id"`
			ActionType string `json:"action_type"`
		} `json:"flow_record"`
	}
	resp = doJSON(t, http.MethodPost, docURL+"/send", map[string]any{
		"recipient_name": "Сидоров",
		"stage":          "Согласование",
		"sender_name":    "Иванов",
	}, &sent)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /send статус = %d, ожидался 200", resp.StatusCode)
	}
	if sent.Message != "Document sent successfully" {
		t.Errorf("message = %q", sent.Message)
	}
	if sent.FlowRecord.ActionType != "send" {
		t.Errorf("flow_record.action_type = %q", sent.FlowRecord.ActionType)
	}

	// Статус в карточке
	var doc struct {
		Status string `json:"status"`
	}
	resp = doJSON(t, http.MethodGet, docURL, nil, &doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /documents/{id} статус = %d", resp.StatusCode)
	}
	if doc.Status != "Sent to Сидоров at stage Согласование" {
		t.Errorf("status = %q", doc.Status)
	}

	// Возврат
	var received struct {
		Message string `json:"message"`
	}
	resp = doJSON(t, http.MethodPost, docURL+"/receive", map[string]any{
		"returner_name": "Сидоров",
		"stage":         "Согласование",
		"receiver_name": "Иванов",
		"notes":         "Без замечаний",
	}, &received)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /receive статус = %d, ожидался 200", resp.StatusCode)
	}
	if received.Message != "Document received successfully" {
		t.Errorf("message = %q", received.Message)
	}

	// История движения — две записи в хронологическом порядке
	var history []struct {
		ActionType string `json:"action_type"`
	}
	resp = doJSON(t, http.MethodGet, docURL+"/flow", nil, &history)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /flow статус = %d", resp.StatusCode)
	}
	if len(history) != 2 || history[0].ActionType != "send" || history[1].ActionType != "receive" {
		t.Errorf("история = %+v, ожидались send, receive", history)
	}

	// Завершение
	var completed struct {
		Message  string `json:"message"`
		Document struct {
			Status      string  `json:"status"`
			CompletedBy *string `json:"completed_by"`
		} `json:"document"`
	}
	resp = doJSON(t, http.MethodPost, docURL+"/complete", map[string]any{
		"completed_by": "Иванов",
	}, &completed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /complete статус = %d, ожидался 200", resp.StatusCode)
	}
	if completed.Message != "Document marked as completed and archived" {
		t.Errorf("message = %q", completed.Message)
	}
	if completed.Document.Status != "archived" {
		t.Errorf("document.status = %q", completed.Document.Status)
	}

	// Повторное завершение — 409 с текущей карточкой
	var conflict struct {
		Message  string `json:"message"`
		Document struct {
			CompletedBy *string `json:"completed_by"`
		} `json:"document"`
	}
	resp = doJSON(t, http.MethodPost, docURL+"/complete", map[string]any{
		"completed_by": "Петров",
	}, &conflict)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("повторный POST /complete статус = %d, ожидался 409", resp.StatusCode)
	}
	if conflict.Message != "Document is already archived" {
		t.Errorf("message = %q", conflict.Message)
	}
	if conflict.Document.CompletedBy == nil || *conflict.Document.CompletedBy != "Иванов" {
		t.Errorf("повтор перезаписал completed_by: %v", conflict.Document.CompletedBy)
	}

	// Движение архивного документа запрещено
	resp = doJSON(t, http.MethodPost, docURL+"/send", map[string]any{
		"recipient_name": "Петров",
		"stage":          "Этап",
		"sender_name":    "Иванов",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("POST /send архивного статус = %d, ожидался 409", resp.StatusCode)
	}
}

// TestDocumentCreateWithSerialNumber проверяет постановку на учёт
// с учётным номером клиента и конфликт при его повторе.
func TestDocumentCreateWithSerialNumber(t *testing.T) {
	srv := setupTestServer(t)

	var created struct {
		SerialNumber string `json:"serial_number"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"serial_number":    "SN-001",
		"name":             "Приказ",
		"originating_unit": "Канцелярия",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /documents статус = %d, ожидался 201", resp.StatusCode)
	}
	if created.SerialNumber != "SN-001" {
		t.Errorf("serial_number = %q, ожидался SN-001", created.SerialNumber)
	}

	// Повтор номера — 409
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"serial_number":    "SN-001",
		"name":             "Другой приказ",
		"originating_unit": "Канцелярия",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("повтор номера статус = %d, ожидался 409", resp.StatusCode)
	}

	// Без номера — выделяется автоматически
	var auto struct {
		SerialNumber string `json:"serial_number"`
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"name":             "Записка",
		"originating_unit": "Канцелярия",
	}, &auto)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /documents без номера статус = %d", resp.StatusCode)
	}
	if auto.SerialNumber == "" || auto.SerialNumber == "SN-001" {
		t.Errorf("автоматический номер = %q", auto.SerialNumber)
	}
}

// TestDocumentValidationAndNotFound проверяет ошибки валидации и 404.
func TestDocumentValidationAndNotFound(t *testing.T) {
	srv := setupTestServer(t)

	// Пустое название — 400
	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"name":             "",
		"originating_unit": "Отдел",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /documents без названия статус = %d, ожидался 400", resp.StatusCode)
	}

	// Некорректный контрольный срок — 400
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"name":             "Приказ",
		"originating_unit": "Отдел",
		"deadline":         "31.12.2026",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /documents с кривой датой статус = %d, ожидался 400", resp.StatusCode)
	}

	// История несуществующего документа — 404
	resp = doJSON(t, http.MethodGet, srv.URL+"/documents/999999/flow", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /flow неизвестного статус = %d, ожидался 404", resp.StatusCode)
	}

	// Нечисловой идентификатор — 404
	resp = doJSON(t, http.MethodGet, srv.URL+"/documents/abc", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /documents/abc статус = %d, ожидался 404", resp.StatusCode)
	}
}

// TestSearchDocuments проверяет поиск с фильтрами.
func TestSearchDocuments(t *testing.T) {
	srv := setupTestServer(t)

	mk := func(name, unit, category string) {
		t.Helper()
		resp := doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
			"name":             name,
			"originating_unit": unit,
			"category":         category,
		}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST /documents статус = %d", resp.StatusCode)
		}
	}
	mk("Приказ о премировании", "Отдел кадров", "приказ")
	mk("Служебная записка", "Бухгалтерия", "записка")

	var docs []struct {
		Name string `json:"name"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/documents?name=приказ&category=приказ", nil, &docs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /documents статус = %d", resp.StatusCode)
	}
	if len(docs) != 1 || docs[0].Name != "Приказ о премировании" {
		t.Errorf("поиск вернул %+v", docs)
	}

	// Без фильтров — все, новые первыми
	resp = doJSON(t, http.MethodGet, srv.URL+"/documents", nil, &docs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /documents статус = %d", resp.StatusCode)
	}
	if len(docs) != 2 || docs[0].Name != "Служебная записка" {
		t.Errorf("порядок поиска: %+v", docs)
	}
}

// TestPersonnelEndpoints проверяет справочник исполнителей.
func TestPersonnelEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	var p struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/personnel", map[string]any{
		"name": "Иванов",
		"role": "делопроизводитель",
	}, &p)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /personnel статус = %d, ожидался 201", resp.StatusCode)
	}
	if p.ID == 0 || p.Name != "Иванов" {
		t.Errorf("ответ = %+v", p)
	}

	// Пустое имя — 400
	resp = doJSON(t, http.MethodPost, srv.URL+"/personnel", map[string]any{"name": ""}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /personnel без имени статус = %d, ожидался 400", resp.StatusCode)
	}

	var list []struct {
		Name string `json:"name"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/personnel", nil, &list)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /personnel статус = %d", resp.StatusCode)
	}
	if len(list) != 1 {
		t.Errorf("справочник: %+v", list)
	}
}

// TestDashboardEndpoints проверяет сводную панель.
func TestDashboardEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	var created struct {
		ID int64 `json:"id"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", map[string]any{
		"name":             "На руках",
		"originating_unit": "Канцелярия",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /documents статус = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/documents/%d/send", srv.URL, created.ID), map[string]any{
		"recipient_name": "Сидоров",
		"stage":          "Исполнение",
		"sender_name":    "Иванов",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /send статус = %d", resp.StatusCode)
	}

	var stats struct {
		TotalPending   int `json:"total_pending"`
		CreatedToday   int `json:"created_today"`
		CompletedToday int `json:"completed_today"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/dashboard/statistics", nil, &stats)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /dashboard/statistics статус = %d", resp.StatusCode)
	}
	if stats.TotalPending != 1 || stats.CreatedToday != 1 || stats.CompletedToday != 0 {
		t.Errorf("statistics = %+v", stats)
	}

	var recalls []struct {
		ID            int64   `json:"id"`
		RecipientName *string `json:"recipient_name"`
		Overdue       bool    `json:"overdue"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/dashboard/due_recalls", nil, &recalls)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /dashboard/due_recalls статус = %d", resp.StatusCode)
	}
	if len(recalls) != 1 || recalls[0].ID != created.ID {
		t.Errorf("due_recalls = %+v", recalls)
	}

	var overdue []any
	resp = doJSON(t, http.MethodGet, srv.URL+"/dashboard/overdue_documents", nil, &overdue)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /dashboard/overdue_documents статус = %d", resp.StatusCode)
	}
	// Без контрольных сроков список пуст
	if len(overdue) != 0 {
		t.Errorf("overdue_documents = %+v", overdue)
	}
}

// TestHealthEndpoints проверяет health endpoints.
func TestHealthEndpoints(t *testing.T) {
	srv := setupTestServer(t)

	var live struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/health/live", nil, &live)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /health/live статус = %d", resp.StatusCode)
	}
	if live.Status != "ok" || live.Service != "wenjianne" {
		t.Errorf("live = %+v", live)
	}

	var ready struct {
		Status string `json:"status"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/health/ready", nil, &ready)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /health/ready статус = %d", resp.StatusCode)
	}
	if ready.Status != "ok" {
		t.Errorf("ready = %+v", ready)
	}
}
