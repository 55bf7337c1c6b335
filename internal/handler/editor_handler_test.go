package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehn77/Editor/internal/middleware"
	"github.com/snehn77/Editor/internal/models"
	"github.com/snehn77/Editor/internal/service"
	appErrors "github.com/snehn77/Editor/pkg/errors"
	"github.com/snehn77/Editor/pkg/storage"
)

type envelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

type tableDataStub struct {
	query    models.RowQuery
	username string
	fileName string
	payload  []byte
	rows     []models.Row
	export   *models.ExportFile
	view     models.ExportView
	format   models.ExportFormat
	err      error
}

func (s *tableDataStub) QueryBatch(_ context.Context, q models.RowQuery, username string) (*models.BatchCreated, error) {
	s.query, s.username = q, username
	if s.err != nil {
		return nil, s.err
	}
	return &models.BatchCreated{BatchID: "batch-1", RecordCount: 3, Source: models.RowSourceExternalDB}, nil
}

func (s *tableDataStub) ImportBatch(_ context.Context, r io.Reader, fileName string, _ int64, username string) (*models.BatchCreated, error) {
	s.fileName, s.username = fileName, username
	s.payload, _ = io.ReadAll(r)
	if s.err != nil {
		return nil, s.err
	}
	return &models.BatchCreated{BatchID: "batch-2", RecordCount: 1, Source: models.RowSourceExcel}, nil
}

func (s *tableDataStub) GetRows(context.Context, string) ([]models.Row, error) {
	return s.rows, s.err
}

func (s *tableDataStub) Export(_ context.Context, _ string, view models.ExportView, format models.ExportFormat) (*models.ExportFile, error) {
	s.view, s.format = view, format
	return s.export, s.err
}

func TestTableDataQueryRequiresProcessAndLayer(t *testing.T) {
	stub := &tableDataStub{}
	c, rec := newContext(http.MethodPost, "/tabledata/query", bytes.NewBufferString(`{"process":"P1"}`))

	NewTableDataHandler(stub).Query(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestTableDataQueryPrefersTokenIdentity(t *testing.T) {
	stub := &tableDataStub{}
	c, rec := newContext(http.MethodPost, "/tabledata/query", bytes.NewBufferString(`{"process":"P1","layer":"L1","username":"bob"}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{Username: "alice"})

	NewTableDataHandler(stub).Query(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "alice", stub.username)
	assert.Equal(t, "P1", stub.query.Process)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"batchId":"batch-1"`)
}

func TestTableDataImportReadsMultipartFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "rows.xlsx")
	require.NoError(t, err)
	_, _ = part.Write([]byte("workbook"))
	require.NoError(t, writer.WriteField("username", "carol"))
	require.NoError(t, writer.Close())

	stub := &tableDataStub{}
	c, rec := newContext(http.MethodPost, "/tabledata/import", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	NewTableDataHandler(stub).Import(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "rows.xlsx", stub.fileName)
	assert.Equal(t, "carol", stub.username)
	assert.Equal(t, []byte("workbook"), stub.payload)
}

func TestTableDataImportWithoutFile(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/tabledata/import", nil)

	NewTableDataHandler(&tableDataStub{}).Import(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTableDataExportStreamsAttachment(t *testing.T) {
	stub := &tableDataStub{export: &models.ExportFile{FileName: "out.csv", ContentType: "text/csv", Data: []byte("a,b")}}
	c, rec := newContext(http.MethodGet, "/tabledata/export/batch-1?view=Effective&format=CSV", nil)
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	NewTableDataHandler(stub).Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ExportView("effective"), stub.view)
	assert.Equal(t, models.ExportFormat("csv"), stub.format)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "out.csv")
	assert.Equal(t, "a,b", rec.Body.String())
}

type filterStub struct {
	process, layer string
}

func (s *filterStub) Processes(context.Context) ([]string, error) {
	return []string{"P1", "P2"}, nil
}

func (s *filterStub) Layers(_ context.Context, process string) ([]string, error) {
	s.process = process
	return nil, appErrors.Clone(appErrors.ErrValidation, "process is required")
}

func (s *filterStub) Operations(_ context.Context, process, layer string) ([]string, error) {
	s.process, s.layer = process, layer
	return []string{"OP1"}, nil
}

func TestFilterHandlerEndpoints(t *testing.T) {
	stub := &filterStub{}
	h := NewFilterHandler(stub)

	c, rec := newContext(http.MethodGet, "/filters/process", nil)
	h.Processes(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"values":["P1","P2"]}`, string(decodeEnvelope(t, rec).Data))

	c, rec = newContext(http.MethodGet, "/filters/layers/", nil)
	h.Layers(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodGet, "/filters/operations/P1/L1", nil)
	c.Params = gin.Params{{Key: "process", Value: "P1"}, {Key: "layer", Value: "L1"}}
	h.Operations(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "L1", stub.layer)
}

type draftStub struct {
	changes   []models.Change
	username  string
	merged    bool
	discarded string
	err       error
}

func (s *draftStub) Get(context.Context, string) ([]models.Change, error) {
	return s.changes, s.err
}

func (s *draftStub) Replace(_ context.Context, _ string, changes []models.Change, username string) ([]models.Change, error) {
	s.changes, s.username = changes, username
	return changes, s.err
}

func (s *draftStub) Merge(_ context.Context, _ string, changes []models.Change, username string) ([]models.Change, error) {
	s.merged = true
	s.changes, s.username = changes, username
	return changes, s.err
}

func (s *draftStub) Discard(_ context.Context, batchID string) error {
	s.discarded = batchID
	return s.err
}

func TestDraftHandlerSaveAcceptsBareArray(t *testing.T) {
	stub := &draftStub{}
	c, rec := newContext(http.MethodPost, "/drafts/batch-1", bytes.NewBufferString(`[{"changeType":"Remove","targetRowId":7}]`))
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	NewDraftHandler(stub).Save(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.changes, 1)
	assert.Equal(t, models.ChangeTypeRemove, stub.changes[0].ChangeType)
	assert.Equal(t, service.AnonymousUser, stub.username)
	assert.False(t, stub.merged)

	var resp struct {
		BatchID string `json:"batchId"`
		Count   int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "batch-1", resp.BatchID)
	assert.Equal(t, 1, resp.Count)
}

func TestDraftHandlerMergeUsesObjectPayload(t *testing.T) {
	stub := &draftStub{}
	c, rec := newContext(http.MethodPost, "/drafts/batch-1/changes", bytes.NewBufferString(`{"username":"dave","changes":[]}`))
	c.Params = gin.Params{{Key: "batchId", Value: "batch-1"}}

	NewDraftHandler(stub).Merge(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.merged)
	assert.Equal(t, "dave", stub.username)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"changes":[]`)
}

func TestDraftHandlerRejectsMalformedPayload(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/drafts/batch-1", bytes.NewBufferString(`{"changes":"nope"}`))

	NewDraftHandler(&draftStub{}).Save(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftHandlerDiscard(t *testing.T) {
	stub := &draftStub{}
	c, rec := newContext(http.MethodDelete, "/drafts/batch-9", nil)
	c.Params = gin.Params{{Key: "batchId", Value: "batch-9"}}

	NewDraftHandler(stub).Discard(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "batch-9", stub.discarded)
}

type reviewStub struct {
	result *service.ReviewResult
	err    error
}

func (s reviewStub) Review(context.Context, string) (*service.ReviewResult, error) {
	return s.result, s.err
}

func TestReviewHandlerMapsNotFound(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/review/missing", nil)

	NewReviewHandler(reviewStub{err: appErrors.Clone(appErrors.ErrNotFound, "batch has no rows")}).Review(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "batch has no rows", decodeEnvelope(t, rec).Error.Message)
}

type submitStub struct {
	batchID string
	req     service.SubmitRequest
	record  *models.HistoryRecord
	err     error
}

func (s *submitStub) Submit(_ context.Context, batchID string, req service.SubmitRequest) (*models.HistoryRecord, error) {
	s.batchID, s.req = batchID, req
	return s.record, s.err
}

type statusStub struct {
	status *service.SubmissionStatus
	err    error
}

func (s statusStub) Status(context.Context, string) (*service.SubmissionStatus, error) {
	return s.status, s.err
}

func TestSubmitHandlerReturnsChangeID(t *testing.T) {
	file := "TableData_P1_L1_20240101_000000.xlsx"
	stub := &submitStub{record: &models.HistoryRecord{ChangeID: "chg-1", ExcelFilePath: &file}}
	c, rec := newContext(http.MethodPost, "/submit/batch-1", bytes.NewBufferString(`{"username":"erin","notes":"  fix  "}`))
	c.Params = gin.Params{{Key: "id", Value: "batch-1"}}

	NewSubmitHandler(stub, nil).Submit(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "batch-1", stub.batchID)
	assert.Equal(t, "erin", stub.req.Username)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "chg-1", resp["changeId"])
	assert.Equal(t, file, resp["excelFilePath"])
	assert.Equal(t, "", resp["documentUrl"])
}

func TestSubmitHandlerWithoutBody(t *testing.T) {
	stub := &submitStub{err: appErrors.Clone(appErrors.ErrAlreadySubmitted, "")}
	c, rec := newContext(http.MethodPost, "/submit/batch-1", nil)

	NewSubmitHandler(stub, nil).Submit(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.AnonymousUser, stub.req.Username)
}

func TestSubmitHandlerStatus(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/submit/chg-1/status", nil)
	NewSubmitHandler(nil, nil).Status(c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	status := &service.SubmissionStatus{ChangeID: "chg-1", Status: models.ApprovalStatusPending}
	c, rec = newContext(http.MethodGet, "/submit/chg-1/status", nil)
	NewSubmitHandler(nil, statusStub{status: status}).Status(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"status":"Pending"`)
}

type historyStub struct {
	filter models.HistoryFilter
	url    string
	err    error
}

func (s *historyStub) List(_ context.Context, filter models.HistoryFilter) ([]models.HistoryRecord, *models.Pagination, error) {
	s.filter = filter
	return []models.HistoryRecord{{ChangeID: "chg-1"}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, s.err
}

func (s *historyStub) Get(context.Context, string) (*service.HistoryEntry, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "history record not found")
}

func (s *historyStub) DocumentURL(context.Context, string) (string, error) {
	return s.url, s.err
}

func TestHistoryHandlerListExtendsToDate(t *testing.T) {
	stub := &historyStub{}
	c, rec := newContext(http.MethodGet, "/history?process=P1&status=Pending&fromDate=2024-01-01&toDate=2024-01-31", nil)

	NewHistoryHandler(stub).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "P1", stub.filter.Process)
	assert.Equal(t, models.ApprovalStatusPending, stub.filter.Status)
	require.NotNil(t, stub.filter.ToDate)
	assert.Equal(t, 23, stub.filter.ToDate.Hour())
	assert.Equal(t, 31, stub.filter.ToDate.Day())
	assert.Equal(t, 1, decodeEnvelope(t, rec).Pagination.TotalCount)
}

func TestHistoryHandlerRejectsBadDate(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/history?fromDate=yesterday", nil)

	NewHistoryHandler(&historyStub{}).List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryHandlerGetAndExcel(t *testing.T) {
	h := NewHistoryHandler(&historyStub{url: "https://docs/x.xlsx"})

	c, rec := newContext(http.MethodGet, "/history/chg-x", nil)
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodGet, "/history/chg-1/excel", nil)
	c.Params = gin.Params{{Key: "changeId", Value: "chg-1"}}
	h.Excel(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"changeId":"chg-1","documentUrl":"https://docs/x.xlsx"}`, string(decodeEnvelope(t, rec).Data))
}

type openerStub struct {
	data []byte
	name string
	err  error
}

func (s openerStub) Open(string) ([]byte, string, error) {
	return s.data, s.name, s.err
}

func TestDocumentHandlerDownload(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/documents/tok", nil)
	NewDocumentHandler(openerStub{data: []byte("xlsx"), name: "report.xlsx"}).Download(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report.xlsx")

	c, rec = newContext(http.MethodGet, "/documents/tok", nil)
	NewDocumentHandler(openerStub{err: storage.ErrTokenExpired}).Download(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newContext(http.MethodGet, "/documents/tok", nil)
	NewDocumentHandler(nil).Download(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type metricsStub struct{}

func (metricsStub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("editor_submissions_total 1"))
	})
}

func (metricsStub) Snapshot() models.MetricsSnapshot {
	return models.MetricsSnapshot{Submissions: 1, GeneratedAt: time.Unix(0, 0).UTC()}
}

func TestMetricsHandlerHealthReportsDegradedDependency(t *testing.T) {
	h := NewMetricsHandler(metricsStub{}, map[string]HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	c, rec := newContext(http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "ok", deps["postgres"])
	assert.Equal(t, "connection refused", deps["redis"])

	c, rec = newContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, "editor_submissions_total 1", rec.Body.String())
}
