package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recivo/internal/domain"
	"recivo/internal/handler"
	"recivo/internal/port"
	"recivo/internal/router"
	"recivo/internal/service"
	"recivo/mocks"
)

type apiFixture struct {
	engine      *gin.Engine
	reportRepo  *mocks.MockReportRepo
	catalogRepo *mocks.MockCatalogRepo
	extractor   *mocks.MockLineItemExtractor
	rasterizer  *mocks.MockRasterizer
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)
	f := &apiFixture{
		reportRepo:  new(mocks.MockReportRepo),
		catalogRepo: new(mocks.MockCatalogRepo),
		extractor:   new(mocks.MockLineItemExtractor),
		rasterizer:  new(mocks.MockRasterizer),
	}
	sessionSvc := service.NewSessionService(f.catalogRepo, f.extractor, f.rasterizer, nil)
	reportSvc := service.NewReportService(f.reportRepo)
	catalogSvc := service.NewCatalogService(f.catalogRepo)
	fileSvc := service.NewFileService(new(mocks.MockObjectStorage), new(mocks.MockFileMetaRepo), "test-bucket", 0)

	f.engine = router.Setup(
		handler.NewSessionHandler(sessionSvc, reportSvc),
		handler.NewReportHandler(reportSvc),
		handler.NewCatalogHandler(catalogSvc),
		handler.NewFileHandler(fileSvc),
		handler.NewHealthHandler(nil),
		nil,
	)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) createSession(t *testing.T) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data service.SessionState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID.String()
}

func (f *apiFixture) extract(t *testing.T, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="files"; filename="invoice.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) stubExtraction(items ...domain.ExtractedLineItem) {
	f.catalogRepo.On("ListAll", mock.Anything).Return([]domain.CatalogItem{}, nil)
	f.rasterizer.On("Pages", mock.Anything, mock.Anything, mock.Anything).
		Return([]port.Page{{Bytes: []byte("x"), ContentType: "image/jpeg"}}, nil)
	f.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{VendorName: "Acme Foods", Items: items}, nil)
}

func TestAPI_SessionLifecycle(t *testing.T) {
	f := newAPIFixture()
	f.stubExtraction(domain.ExtractedLineItem{Name: "Flour 10kg", Quantity: 2})
	f.reportRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	id := f.createSession(t)

	w := f.extract(t, id)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"phase":"verify"`)

	// Count both units so the item auto-verifies as a match.
	for i := 0; i < 2; i++ {
		w = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/items/0/increment", id), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Contains(t, w.Body.String(), `"status":"match"`)

	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"report"`)

	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/report", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"vendor_name":"Acme Foods"`)
	f.reportRepo.AssertExpectations(t)
}

func TestAPI_AdvanceWithoutVerifiedItems(t *testing.T) {
	f := newAPIFixture()
	f.stubExtraction(domain.ExtractedLineItem{Name: "Flour", Quantity: 1})

	id := f.createSession(t)
	require.Equal(t, http.StatusOK, f.extract(t, id).Code)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "NO_VERIFIED_ITEMS")
}

func TestAPI_MarkAsValidation(t *testing.T) {
	f := newAPIFixture()
	f.stubExtraction(domain.ExtractedLineItem{Name: "Flour", Quantity: 1})

	id := f.createSession(t)
	require.Equal(t, http.StatusOK, f.extract(t, id).Code)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/items/0/mark", gin.H{"status": "shortage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ITEM_STATUS")

	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/items/0/mark", gin.H{"status": "missing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"missing"`)
}

func TestAPI_ItemIndexOutOfRange(t *testing.T) {
	f := newAPIFixture()
	f.stubExtraction(domain.ExtractedLineItem{Name: "Flour", Quantity: 1})

	id := f.createSession(t)
	require.Equal(t, http.StatusOK, f.extract(t, id).Code)

	w := f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/items/7/increment", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ITEM_INDEX_OUT_OF_RANGE")

	w = f.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/items/notanumber/increment", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_UnknownSession(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")

	w = f.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestAPI_ExtractRequiresFiles(t *testing.T) {
	f := newAPIFixture()
	id := f.createSession(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
}

func TestAPI_CatalogImport(t *testing.T) {
	f := newAPIFixture()
	f.catalogRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []domain.CatalogItem) bool {
		return len(items) == 2
	})).Return(nil)

	body := gin.H{"items": []gin.H{
		{"name": "Flour 10kg", "sku": "FL-10"},
		{"name": "Olive Oil 5L", "sku": "OO-5"},
	}}
	w := f.do(t, http.MethodPost, "/api/v1/catalog/import", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":2`)
	f.catalogRepo.AssertExpectations(t)
}

func TestAPI_ReportsList(t *testing.T) {
	f := newAPIFixture()
	f.reportRepo.On("List", mock.Anything, 0, 20).Return([]domain.ReceivingReport{}, 0, nil)

	w := f.do(t, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
}

func TestAPI_HealthLiveness(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "ok"))
}
