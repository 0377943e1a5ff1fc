package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandmatch-service/internal/brandmatch/catalog"
	"brandmatch-service/internal/brandmatch/keywords"
	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/brandmatch/service"
	"brandmatch-service/internal/fileio"
)

type fixture struct {
	router   chi.Router
	registry *keywords.Registry
	store    *catalog.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := zerolog.Nop()

	reg := keywords.NewRegistry(keywords.NewMemoryRepository([]string{"무료배송"}), log)
	require.NoError(t, reg.Load(context.Background()))

	store := catalog.NewStore(catalog.Loader{Log: log})
	store.Reload(context.Background())

	svc, err := service.New(store, reg, model.DefaultOptions(), log)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Post("/match", Match(svc, 16, log))
	r.Get("/keywords", ListKeywords(reg, log))
	r.Post("/keywords", AddKeyword(reg, log))
	r.Delete("/keywords/{keyword}", RemoveKeyword(reg, log))
	r.Get("/catalog", Catalog(store, log))
	r.Post("/catalog/refresh", RefreshCatalog(store, log))
	return fixture{router: r, registry: reg, store: store}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const ordersCSV = "주문일,주문번호,주문자,위탁자,상품,옵션,수량\n" +
	"2024-05-01,A-1,김,이,소예 테리헤어밴드,사이즈=M,2\n" +
	"2024-05-01,A-2,김,이,없는브랜드 상품,,1\n"

func uploadRequest(t *testing.T, filename, body string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/match", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMatch_JSON(t *testing.T) {
	f := newFixture(t)
	rec := f.do(uploadRequest(t, "orders.csv", ordersCSV, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var res service.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []model.MatchTier{model.TierIndexed, model.TierFailed}, res.Tiers)
	assert.Equal(t, "소예패션", res.Rows[0].Distributor)
	assert.Equal(t, 16000.0, res.Rows[0].Amount)
	assert.Len(t, res.Columns, 23)
}

func TestMatch_XLSX(t *testing.T) {
	f := newFixture(t)
	rec := f.do(uploadRequest(t, "orders.csv", ordersCSV, map[string]string{"format": "xlsx"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "orders_matched.xlsx")

	tbl, err := fileio.ReadTable(bytes.NewReader(rec.Body.Bytes()), "result.xlsx", 1)
	require.NoError(t, err)
	assert.Equal(t, model.OrderColumns, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "소예패션", tbl.Rows[0][13])
}

func TestMatch_BadRequests(t *testing.T) {
	f := newFixture(t)

	rec := f.do(uploadRequest(t, "orders.txt", ordersCSV, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec = f.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestKeywords_CRUD(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/keywords", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list keywordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, []string{"무료배송"}, list.Keywords)
	v0 := list.Version

	rec = f.do(httptest.NewRequest(http.MethodPost, "/keywords", strings.NewReader(`{"keyword":"당일발송"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Greater(t, list.Version, v0)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/keywords", strings.NewReader(`{"keyword":"당일발송"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/keywords", strings.NewReader(`{"keyword":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodPost, "/keywords", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/keywords/%EB%AC%B4%EB%A3%8C%EB%B0%B0%EC%86%A1", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"당일발송"}, f.registry.List())

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/keywords/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog_StatsAndRefresh(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var st catalog.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "fallback", st.Source)
	assert.Equal(t, 15, st.Rows)

	before := f.store.Current()
	rec = f.do(httptest.NewRequest(http.MethodPost, "/catalog/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotSame(t, before, f.store.Current())
}

func TestAttachment(t *testing.T) {
	assert.Contains(t, attachment("주문.xlsx"), "filename*=UTF-8''%EC%A3%BC%EB%AC%B8_matched.xlsx")
	assert.Contains(t, attachment(""), "orders_matched.xlsx")
}
