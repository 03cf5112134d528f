package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/8wontae4/cost-calculation/internal/config"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0
	return NewHandler(zap.NewNop(), cfg, "test")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleCalculateSuccess(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/calculate", `{"plan": {"targetGLABSales": 1200}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Plan.TargetGLABSales != 1200 || resp.Plan.ProductionPeriodMonths != 12 {
		t.Fatalf("omitted fields should keep defaults: %+v", resp.Plan)
	}
	if resp.Inputs.MonthlyGLABCapacity != 100 {
		t.Fatalf("expected derived capacity 100, got %v", resp.Inputs.MonthlyGLABCapacity)
	}
	if resp.Result.TotalOpticalModules != 14400 {
		t.Fatalf("expected 14400 modules, got %d", resp.Result.TotalOpticalModules)
	}
	if len(resp.Rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(resp.Rows))
	}
	if !strings.HasPrefix(resp.CSV, "\ufeff항목,값") {
		t.Fatalf("unexpected CSV prefix in %q", resp.CSV)
	}
	if len(resp.Metrics) == 0 || len(resp.Breakdown.Composition) != 3 {
		t.Fatal("expected metrics and breakdown in response")
	}
	if resp.BreakEven != nil {
		t.Fatal("break-even should be omitted unless requested")
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
}

func TestHandleCalculateEmptyBody(t *testing.T) {
	rr := postJSON(t, newTestHandler(t), "/api/calculate", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for defaults, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleCalculateBreakEven(t *testing.T) {
	rr := postJSON(t, newTestHandler(t), "/api/calculate", `{"breakEven": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.BreakEven) != 2 {
		t.Fatalf("expected 2 break-even summaries, got %d", len(resp.BreakEven))
	}
}

func TestHandleCalculateInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		contains string
		fields   []string
	}{
		{
			name:     "Zero denominators",
			body:     `{"plan": {"productionPeriodMonths": 0, "depreciationPeriodYears": 0}}`,
			status:   http.StatusBadRequest,
			contains: "productionPeriodMonths",
			fields:   []string{"productionPeriodMonths", "depreciationPeriodYears"},
		},
		{
			name:     "Malformed JSON",
			body:     `{"plan": `,
			status:   http.StatusBadRequest,
			contains: "failed to decode request",
		},
		{
			name:     "Unknown field",
			body:     `{"plan": {"monthlyGLABCapacity": 80}}`,
			status:   http.StatusBadRequest,
			contains: "unknown field",
		},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, handler, "/api/calculate", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp.Error, tt.contains) {
				t.Fatalf("error %q missing %q", resp.Error, tt.contains)
			}
			if len(tt.fields) > 0 && strings.Join(resp.Fields, ",") != strings.Join(tt.fields, ",") {
				t.Fatalf("fields = %v, expected %v", resp.Fields, tt.fields)
			}
		})
	}
}

func TestHandleCalculateOutOfRangeSales(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/calculate", `{"plan": {"targetGLABSales": 1000000000000000000}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0] != "targetGLABSales" {
		t.Errorf("Fields = %v, expected [targetGLABSales]", resp.Fields)
	}
}

func TestHandleCalculateBodyTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetUploadSizeBytes(64)
	handler := NewHandler(zap.NewNop(), cfg, "test")

	body := fmt.Sprintf(`{"plan": {"setPrice": 5%s}}`, strings.Repeat(" ", 128))
	rr := postJSON(t, handler, "/api/calculate", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "request exceeds limit") {
		t.Fatalf("expected limit error message, got %q", resp["error"])
	}
}

func TestHandleCalculateMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/calculate", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func postForm(t *testing.T, handler http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleCalculateForm(t *testing.T) {
	handler := newTestHandler(t)

	rr := postForm(t, handler, "/api/calculate", url.Values{
		"targetGLABSales":     {"1,200"},
		"monthlyGLABCapacity": {"7"},
		"breakEven":           {"true"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp calculateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Plan.TargetGLABSales != 1200 {
		t.Errorf("TargetGLABSales = %d, expected 1200", resp.Plan.TargetGLABSales)
	}
	if resp.Inputs.MonthlyGLABCapacity != 100 {
		t.Errorf("submitted capacity should be ignored, got %v", resp.Inputs.MonthlyGLABCapacity)
	}
	if len(resp.BreakEven) != 2 {
		t.Errorf("expected break-even results, got %d", len(resp.BreakEven))
	}
}

func TestHandleCalculateFormInvalid(t *testing.T) {
	handler := newTestHandler(t)

	rr := postForm(t, handler, "/api/calculate", url.Values{"productionPeriodMonths": {"abc"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0] != "productionPeriodMonths" {
		t.Errorf("Fields = %v, expected [productionPeriodMonths]", resp.Fields)
	}
}

func TestHandleExportForm(t *testing.T) {
	handler := newTestHandler(t)

	rr := postForm(t, handler, "/api/export/csv", url.Values{"setPrice": {"6"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "6.0천만원") {
		t.Errorf("export should reflect the submitted set price:\n%s", rr.Body.String())
	}
}

func TestHandleExport(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		magic       []byte
	}{
		{"csv", "text/csv; charset=utf-8", []byte{0xEF, 0xBB, 0xBF}},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK")},
		{"pdf", "application/pdf", []byte("%PDF-")},
	}

	handler := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rr := postJSON(t, handler, "/api/export/"+tt.format, `{"setPrice": 6}`)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			if got := rr.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("Content-Type = %s, expected %s", got, tt.contentType)
			}
			disposition := rr.Header().Get("Content-Disposition")
			if !strings.HasPrefix(disposition, "attachment;") || !strings.Contains(disposition, "filename*=utf-8''") {
				t.Fatalf("unexpected Content-Disposition %q", disposition)
			}
			if !bytes.HasPrefix(rr.Body.Bytes(), tt.magic) {
				t.Fatalf("body does not look like %s", tt.format)
			}
		})
	}
}

func TestHandleExportWorkbookContents(t *testing.T) {
	rr := postJSON(t, newTestHandler(t), "/api/export/xlsx", `{"setPrice": 6}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	value, err := f.GetCellValue("계산결과", "B12")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if value != "6.0천만원" {
		t.Fatalf("set price cell = %q, expected 6.0천만원", value)
	}
}

func TestHandleExportErrors(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/export/docx", `{}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown format, got %d", rr.Code)
	}

	rr = postJSON(t, handler, "/api/export/csv", `{"requiredWorkers": 0}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid plan, got %d", rr.Code)
	}

	cfg := DefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0
	cfg.PDFFontPath = "/nonexistent/font.ttf"
	rr = postJSON(t, NewHandler(zap.NewNop(), cfg, "test"), "/api/export/pdf", `{}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 for missing font, got %d", rr.Code)
	}
}

func TestHandleConfigExport(t *testing.T) {
	rr := postJSON(t, newTestHandler(t), "/api/config", `{"plan": {"setPrice": 7.5, "requiredWorkers": 3}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	conf, err := config.LoadConfigurationFromReader(strings.NewReader(resp["configYaml"]))
	if err != nil {
		t.Fatalf("exported YAML does not load: %v", err)
	}
	if conf.Plan.SetPrice != 7.5 || conf.Plan.RequiredWorkers != 3 || conf.Plan.TargetGLABSales != 600 {
		t.Fatalf("unexpected round-tripped plan: %+v", conf.Plan)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(resp["configYaml"]), &raw); err != nil {
		t.Fatalf("exported YAML invalid: %v", err)
	}
	if _, ok := raw["plan"]; !ok {
		t.Fatalf("exported YAML missing plan section")
	}
}

func TestHandleFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/fields", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Sections []struct {
			Title  string `json:"title"`
			Fields []struct {
				Key string `json:"key"`
			} `json:"fields"`
		} `json:"sections"`
		Defaults map[string]interface{} `json:"defaults"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	count := 0
	for _, s := range resp.Sections {
		count += len(s.Fields)
	}
	if len(resp.Sections) != 5 || count != 11 {
		t.Fatalf("expected 5 sections with 11 fields, got %d sections with %d fields", len(resp.Sections), count)
	}
	if resp.Defaults["setPrice"] != 5.0 {
		t.Fatalf("expected default setPrice 5, got %v", resp.Defaults["setPrice"])
	}
}

func TestHandleVersionAndHealth(t *testing.T) {
	handler := newTestHandler(t)

	for path, key := range map[string]string{"/api/version": "version", "/healthz": "status"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rr.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: failed to decode response: %v", path, err)
		}
		if resp[key] == "" {
			t.Fatalf("%s: missing %s", path, key)
		}
	}
}

func TestStaticIndex(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "광모듈 생산 비용 계산기") {
		t.Fatal("index page not served")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}
	handler := NewHandler(zap.NewNop(), cfg, "test")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	// Another client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for a second client, got %d", rr.Code)
	}

	// Health checks are not limited
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health check to bypass limits, got %d", rr.Code)
	}
}

func TestRateLimitZeroBurstStillServes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: 1, Burst: 0}
	handler := NewHandler(zap.NewNop(), cfg, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected the first request through, got %d", rr.Code)
	}
}

func TestClientRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := newClientRateLimiter(zap.NewNop(), RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	for i := 0; i < 100; i++ {
		limiter.limiter(fmt.Sprintf("198.51.100.%d", i))
	}
	if limiter.size() != 100 {
		t.Fatalf("expected 100 tracked clients, got %d", limiter.size())
	}

	// One client stays active halfway through the idle window
	now = now.Add(limiter.idleTimeout / 2)
	limiter.limiter("198.51.100.7")
	if limiter.size() != 100 {
		t.Fatalf("no sweep is due yet, got %d clients", limiter.size())
	}

	now = now.Add(limiter.idleTimeout / 2)
	limiter.limiter("203.0.113.1")
	if got := limiter.size(); got != 2 {
		t.Fatalf("expected the active and the new client to remain, got %d", got)
	}
	if _, ok := limiter.clients["198.51.100.7"]; !ok {
		t.Errorf("recently seen client was evicted")
	}

	// An evicted client starts over with a full bucket
	if !limiter.limiter("198.51.100.1").Allow() {
		t.Errorf("expected a fresh bucket for a returning client")
	}
}

func TestServeShutsDown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, zap.NewNop(), listener, DefaultConfig(), "test")
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
