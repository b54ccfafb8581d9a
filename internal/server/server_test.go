package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minhnx/txtriage/internal/core/classify"
	"github.com/minhnx/txtriage/internal/core/domain"
	"github.com/minhnx/txtriage/internal/diagnose"
	"github.com/minhnx/txtriage/internal/infra/llm"
	"github.com/minhnx/txtriage/internal/infra/storage/memory"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

type cannedClient struct {
	calls int
}

func (c *cannedClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	c.calls++
	return "canned reply", nil
}

func newTestServer(diagnoser *diagnose.Diagnoser) (*Server, *memory.ReportRepo) {
	repo := memory.NewReportRepo()
	s := NewServer(classify.NewNormalizerWithClock(fixedClock), repo, diagnoser, nil, nil, 0)
	return s, repo
}

func TestHandleClassify(t *testing.T) {
	s, repo := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/classify",
		strings.NewReader(`{"error":"out of gas","gasLimit":"21000"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.ErrorCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if got.Key != "OUT_OF_GAS" || got.Category != "Gas Error" {
		t.Errorf("Unexpected result: %+v", got)
	}

	// Fast path never persists.
	if count, _ := repo.Count(context.Background()); count != 0 {
		t.Errorf("Expected no stored reports, got %d", count)
	}
}

func TestHandleClassify_BadBody(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/classify", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleClassify_NonStringFieldsTolerated(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/classify",
		strings.NewReader(`{"error":"nonce too low","gasLimit":21000,"to":null}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got domain.ErrorCategory
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Key != "NONCE" {
		t.Errorf("Expected NONCE, got %s", got.Key)
	}
}

func TestHandleAnalyze_WithDiagnosis(t *testing.T) {
	client := &cannedClient{}
	s, repo := newTestServer(diagnose.NewDiagnoser(client, nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze",
		strings.NewReader(`{"to":"0xRouter","error":"ERC20: transfer amount exceeds allowance"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.TriageReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if got.CategoryKey != "ALLOWANCE" {
		t.Errorf("Expected ALLOWANCE, got %s", got.CategoryKey)
	}
	if got.Context.ContractAddress != "0xRouter" {
		t.Errorf("Expected recipient fallback, got %q", got.Context.ContractAddress)
	}
	if got.Diagnosis == nil || got.Diagnosis.Analysis != "canned reply" {
		t.Errorf("Expected diagnosis, got %+v", got.Diagnosis)
	}
	if client.calls != 3 {
		t.Errorf("Expected 3 inference calls, got %d", client.calls)
	}

	// The report is persisted and retrievable.
	stored, err := repo.GetByID(context.Background(), got.ID)
	if err != nil || stored == nil {
		t.Fatalf("Expected stored report, got %v, %v", stored, err)
	}
}

func TestHandleAnalyze_SkipLLM(t *testing.T) {
	client := &cannedClient{}
	s, _ := newTestServer(diagnose.NewDiagnoser(client, nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze?skip_llm=1",
		strings.NewReader(`{"error":"execution reverted"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got domain.TriageReport
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Diagnosis != nil {
		t.Error("Expected no diagnosis with skip_llm")
	}
	if client.calls != 0 {
		t.Errorf("Expected no inference calls, got %d", client.calls)
	}
}

func TestHandleAnalyze_EmptyObjectDefaults(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got domain.TriageReport
	json.Unmarshal(rec.Body.Bytes(), &got)
	ctx := got.Context
	if ctx.Hash != "N/A" || ctx.ErrorMessage != "No error message" {
		t.Errorf("Expected defaults, got hash=%q error=%q", ctx.Hash, ctx.ErrorMessage)
	}
	if ctx.ErrorCategory.Key != classify.UnknownKey {
		t.Errorf("Expected UNKNOWN, got %s", ctx.ErrorCategory.Key)
	}
	if ctx.AdditionalContext == nil {
		t.Error("Expected non-nil additional context")
	}
}

func TestHandleGetReport_NotFound(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleListReports(t *testing.T) {
	s, repo := newTestServer(nil)
	repo.Save(context.Background(), &domain.TriageReport{ID: "a", CreatedAt: fixedClock()})

	req := httptest.NewRequest(http.MethodGet, "/v1/reports?limit=5", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got struct {
		Reports []domain.TriageReport `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if len(got.Reports) != 1 || got.Reports[0].ID != "a" {
		t.Errorf("Unexpected reports: %+v", got.Reports)
	}
}

func TestHandleListReports_BadLimit(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports?limit=zero", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", got.Status)
	}
	if got.Dependencies["database"] != "disabled" || got.Dependencies["llm"] != "disabled" {
		t.Errorf("Unexpected dependencies: %v", got.Dependencies)
	}
}
