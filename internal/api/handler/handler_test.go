package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anhpls/uniflo/config"
	"github.com/anhpls/uniflo/internal/dto"
	"github.com/anhpls/uniflo/internal/service"
	"github.com/anhpls/uniflo/pkg/response"
	"github.com/anhpls/uniflo/pkg/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock UploadService ──

type mockUploadService struct {
	storeResult *dto.UploadResponse
	storeErr    error
	getResult   *dto.UploadResponse
	getErr      error
}

func (m *mockUploadService) Store(_ context.Context, _ io.Reader, _, _ string) (*dto.UploadResponse, error) {
	return m.storeResult, m.storeErr
}

func (m *mockUploadService) Get(_ context.Context, _ string) (*dto.UploadResponse, error) {
	return m.getResult, m.getErr
}

// ── Mock SyllabusService ──

type mockSyllabusService struct {
	parseResult   *dto.ParseResultResponse
	parseErr      error
	previewResult *dto.PreviewResponse
	previewErr    error
}

func (m *mockSyllabusService) ParseUpload(_ context.Context, _ string, _ *dto.ParseUploadRequest) (*dto.ParseResultResponse, error) {
	return m.parseResult, m.parseErr
}

func (m *mockSyllabusService) Preview(_ context.Context, _ *dto.PreviewRequest) (*dto.PreviewResponse, error) {
	return m.previewResult, m.previewErr
}

// ── Mock CourseService ──

type mockCourseService struct {
	getResult  *dto.CourseResponse
	getErr     error
	listResult []dto.CourseSummaryResponse
	listTotal  int64
	listErr    error
	deleteErr  error
}

func (m *mockCourseService) GetByID(_ context.Context, _ string) (*dto.CourseResponse, error) {
	return m.getResult, m.getErr
}

func (m *mockCourseService) List(_ context.Context, _, _ int) ([]dto.CourseSummaryResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

func (m *mockCourseService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	xlsxBuf      *bytes.Buffer
	xlsxFilename string
	xlsxErr      error
	icsData      []byte
	icsFilename  string
	icsErr       error
}

func (m *mockExportService) ExportXLSX(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.xlsxBuf, m.xlsxFilename, m.xlsxErr
}

func (m *mockExportService) ExportICS(_ context.Context, _ string) ([]byte, string, error) {
	return m.icsData, m.icsFilename, m.icsErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseEnvelope(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()
	return body, mw.FormDataContentType()
}

func newTestFileStore(t *testing.T) *storage.Store {
	t.Helper()
	cfg := &config.StorageConfig{
		Root:         t.TempDir(),
		URLSecret:    "handler-test-secret-0123456789",
		URLTTL:       time.Hour,
		MaxFileBytes: 1 << 20,
	}
	store, err := storage.NewStore(cfg, "http://localhost:8080", zap.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// ═══════════════════════════════════════════════════════════
// UploadHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUploadHandler_Store_Success(t *testing.T) {
	mock := &mockUploadService{
		storeResult: &dto.UploadResponse{UploadID: "upload-1", Filename: "cs101.md", Status: "stored"},
	}
	h := NewUploadHandler(mock)

	body, contentType := multipartBody(t, "file", "cs101.md", "# Syllabus")
	req := httptest.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/uploads", h.Store)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestUploadHandler_Store_MissingFile(t *testing.T) {
	h := NewUploadHandler(&mockUploadService{})

	req := httptest.NewRequest("POST", "/api/v1/uploads", strings.NewReader("not multipart"))
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/uploads", h.Store)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 20001 {
		t.Errorf("expected error code 20001, got %d", resp.Code)
	}
}

func TestUploadHandler_Store_TooLarge(t *testing.T) {
	mock := &mockUploadService{storeErr: service.ErrFileTooLarge}
	h := NewUploadHandler(mock)

	body, contentType := multipartBody(t, "file", "big.md", "xxxx")
	req := httptest.NewRequest("POST", "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/uploads", h.Store)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 20003 {
		t.Errorf("expected error code 20003, got %d", resp.Code)
	}
}

func TestUploadHandler_Get_NotFound(t *testing.T) {
	mock := &mockUploadService{getErr: service.ErrUploadNotFound}
	h := NewUploadHandler(mock)

	req := httptest.NewRequest("GET", "/api/v1/uploads/missing", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/uploads/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SyllabusHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSyllabusHandler_Parse_Success(t *testing.T) {
	mock := &mockSyllabusService{
		parseResult: &dto.ParseResultResponse{CourseID: "course-1", CourseName: "CS 101", Source: "regex"},
	}
	h := NewSyllabusHandler(mock)

	req := httptest.NewRequest("POST", "/api/v1/uploads/upload-1/parse",
		jsonBody(dto.ParseUploadRequest{StartDate: "2024-01-15"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/uploads/:id/parse", h.Parse)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

// Parse options are optional; an empty body runs with defaults.
func TestSyllabusHandler_Parse_EmptyBody(t *testing.T) {
	mock := &mockSyllabusService{
		parseResult: &dto.ParseResultResponse{CourseID: "course-1"},
	}
	h := NewSyllabusHandler(mock)

	req := httptest.NewRequest("POST", "/api/v1/uploads/upload-1/parse", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/uploads/:id/parse", h.Parse)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSyllabusHandler_Parse_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrUploadNotFound, http.StatusNotFound, 30002},
		{"already parsed", service.ErrAlreadyParsed, http.StatusConflict, 30003},
		{"unsupported type", service.ErrUnsupportedFileType, http.StatusUnsupportedMediaType, 30004},
		{"empty document", service.ErrEmptyDocument, http.StatusUnprocessableEntity, 30005},
		{"model unavailable", service.ErrModelUnavailable, http.StatusServiceUnavailable, 30006},
		{"model bad json", service.ErrModelBadJSON, http.StatusBadGateway, 30007},
		{"file gone", service.ErrUploadGone, http.StatusGone, 30008},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSyllabusHandler(&mockSyllabusService{parseErr: tc.err})

			req := httptest.NewRequest("POST", "/api/v1/uploads/upload-1/parse", nil)
			w := httptest.NewRecorder()

			r := gin.New()
			r.POST("/api/v1/uploads/:id/parse", h.Parse)
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			if resp := parseEnvelope(w); resp.Code != tc.wantCode {
				t.Errorf("expected error code %d, got %d", tc.wantCode, resp.Code)
			}
		})
	}
}

func TestSyllabusHandler_Preview_Success(t *testing.T) {
	mock := &mockSyllabusService{
		previewResult: &dto.PreviewResponse{NormalizedText: "Week 1 (2024-01-15 to 2024-01-21)"},
	}
	h := NewSyllabusHandler(mock)

	req := httptest.NewRequest("POST", "/api/v1/syllabus/preview",
		jsonBody(dto.PreviewRequest{Text: "Week 1", StartDate: "2024-01-15"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/syllabus/preview", h.Preview)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSyllabusHandler_Preview_MissingText(t *testing.T) {
	h := NewSyllabusHandler(&mockSyllabusService{})

	req := httptest.NewRequest("POST", "/api/v1/syllabus/preview",
		jsonBody(dto.PreviewRequest{}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/syllabus/preview", h.Preview)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_Get_Success(t *testing.T) {
	mock := &mockCourseService{
		getResult: &dto.CourseResponse{CourseID: "course-1", Name: "CS 101"},
	}
	h := NewCourseHandler(mock, &mockExportService{})

	req := httptest.NewRequest("GET", "/api/v1/courses/course-1", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/courses/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCourseHandler_Get_NotFound(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{getErr: service.ErrCourseNotFound}, &mockExportService{})

	req := httptest.NewRequest("GET", "/api/v1/courses/missing", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/courses/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 40001 {
		t.Errorf("expected error code 40001, got %d", resp.Code)
	}
}

func TestCourseHandler_List_Success(t *testing.T) {
	mock := &mockCourseService{
		listResult: []dto.CourseSummaryResponse{{CourseID: "course-1", Name: "CS 101"}},
		listTotal:  1,
	}
	h := NewCourseHandler(mock, &mockExportService{})

	req := httptest.NewRequest("GET", "/api/v1/courses?page=1&page_size=10", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/courses", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCourseHandler_Delete_Success(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{}, &mockExportService{})

	req := httptest.NewRequest("DELETE", "/api/v1/courses/course-1", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.DELETE("/api/v1/courses/:id", h.Delete)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCourseHandler_ExportXLSX_Success(t *testing.T) {
	mock := &mockExportService{
		xlsxBuf:      bytes.NewBufferString("workbook-bytes"),
		xlsxFilename: "CS_101.xlsx",
	}
	h := NewCourseHandler(&mockCourseService{}, mock)

	req := httptest.NewRequest("GET", "/api/v1/courses/course-1/export/xlsx", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/courses/:id/export/xlsx", h.ExportXLSX)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "CS_101.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestCourseHandler_ExportICS_NoEvents(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{}, &mockExportService{icsErr: service.ErrExportNoEvents})

	req := httptest.NewRequest("GET", "/api/v1/courses/course-1/export/ics", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/courses/:id/export/ics", h.ExportICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 40002 {
		t.Errorf("expected error code 40002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// FileHandler Tests
// ═══════════════════════════════════════════════════════════

func TestFileHandler_Download_Success(t *testing.T) {
	store := newTestFileStore(t)
	key, _, err := store.Save(strings.NewReader("stored syllabus"), "cs101.md")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	signedURL, err := store.SignURL(key)
	if err != nil {
		t.Fatalf("SignURL: %v", err)
	}
	parsed, err := url.Parse(signedURL)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	token := parsed.Query().Get("token")

	h := NewFileHandler(store)

	req := httptest.NewRequest("GET", "/api/v1/files/"+key+"?token="+url.QueryEscape(token), nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/files/:key", h.Download)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "stored syllabus" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestFileHandler_Download_MissingToken(t *testing.T) {
	h := NewFileHandler(newTestFileStore(t))

	req := httptest.NewRequest("GET", "/api/v1/files/somekey", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/files/:key", h.Download)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestFileHandler_Download_TokenKeyMismatch(t *testing.T) {
	store := newTestFileStore(t)
	keyA, _, err := store.Save(strings.NewReader("a"), "a.md")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, _, err := store.Save(strings.NewReader("b"), "b.md"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	signedURL, _ := store.SignURL(keyA)
	parsed, _ := url.Parse(signedURL)
	token := parsed.Query().Get("token")

	h := NewFileHandler(store)

	// token for keyA presented against a different key
	req := httptest.NewRequest("GET", "/api/v1/files/other-key?token="+url.QueryEscape(token), nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/files/:key", h.Download)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
