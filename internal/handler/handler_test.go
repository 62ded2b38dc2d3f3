package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingua-globe-service/internal/metrics"
	"lingua-globe-service/internal/model"
	"lingua-globe-service/internal/service"
)

const seedJSON = `[
  {"id": "english", "name": "English", "family": "Germanic", "status": "active",
   "countries": ["United Kingdom", "United States"],
   "locations": [{"name": "London", "lat": 51.5074, "lng": -0.1278}, {"name": "Washington D.C.", "lat": 38.9072, "lng": -77.0369}]},
  {"id": "cree", "name": "Cree", "family": "Algic", "status": "endangered",
   "locations": [{"name": "Saskatchewan, Canada", "lat": 52.9399, "lng": -106.4509}]},
  {"id": "greek", "name": "Greek", "family": "Hellenic", "status": "active",
   "locations": [{"name": "Athens, Greece", "lat": 37.9838, "lng": 23.7275}]}
]`

type testServer struct {
	app      *fiber.App
	catalog  service.Catalog
	registry *metrics.Registry
}

// brokenStore fails every import the way an unreachable Redis does.
type brokenStore struct {
	service.Catalog
}

func (brokenStore) ImportFromReader(ctx context.Context, r io.Reader, format service.Format) (int, error) {
	return 0, fmt.Errorf("%w: failed to execute pipeline: connection refused", service.ErrStorage)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalog := service.NewMemoryCatalog()
	_, err := catalog.ImportFromReader(context.Background(), strings.NewReader(seedJSON), service.Format{})
	require.NoError(t, err)
	return newTestServerWith(catalog)
}

func newTestServerWith(catalog service.Catalog) *testServer {
	registry := metrics.NewRegistry()
	languageHandler := NewLanguageHandler(catalog)
	languageHandler.intn = func(n int) int { return n - 1 }
	requestHandler := NewRequestHandler(service.NewMemoryRequestStore())
	globeHandler := NewGlobeHandler(service.NewGlobeView(catalog, registry), catalog, 2.5)
	importHandler := NewImportHandler(catalog, registry)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Metrics(registry))

	api := app.Group("/api/v1")
	api.Get("/languages", languageHandler.List)
	api.Get("/languages/random", languageHandler.GetRandom)
	api.Get("/languages/:id", languageHandler.GetByID)
	api.Get("/archive", languageHandler.GetArchive)
	api.Get("/search/suggestions", languageHandler.GetSuggestions)
	api.Get("/globe/points", globeHandler.GetPoints)
	api.Get("/globe/points.geojson", globeHandler.GetPointsGeoJSON)
	api.Get("/globe/labels", globeHandler.GetLabels)
	api.Get("/globe/tier", globeHandler.GetTier)
	api.Post("/requests", requestHandler.Submit)

	adminAuth := basicauth.New(basicauth.Config{Users: map[string]string{"admin": "secret"}})
	importRoutes := api.Group("/import", adminAuth)
	importRoutes.Post("/languages", importHandler.ImportLanguages)
	importRoutes.Get("/status", importHandler.GetStatus)
	importRoutes.Get("/export", importHandler.Export)
	importRoutes.Delete("/clear", importHandler.ClearDatabase)
	api.Delete("/languages/:id", adminAuth, importHandler.DeleteLanguage)
	api.Get("/requests", adminAuth, requestHandler.List)

	return &testServer{app: app, catalog: catalog, registry: registry}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *testServer) get(t *testing.T, target string) (*http.Response, []byte) {
	return s.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.SetBasicAuth("admin", "secret")
	return req
}

func TestListAndGetLanguage(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/languages")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Data []model.Language `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Data, 3)
	assert.Equal(t, "english", list.Data[0].ID)

	resp, body = s.get(t, "/api/v1/languages/cree")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var one struct {
		Data model.Language `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, model.StatusEndangered, one.Data.Status)

	resp, body = s.get(t, "/api/v1/languages/klingon")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "not found")
}

func TestGetArchive(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/archive?search=E")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var archive struct {
		Data  []model.LanguageSummary `json:"data"`
		Total int                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &archive))
	require.Equal(t, 3, archive.Total)
	assert.Equal(t, "Cree", archive.Data[0].Name)
	assert.Equal(t, "English", archive.Data[1].Name)
	assert.Equal(t, "Greek", archive.Data[2].Name)
	assert.Equal(t, 2, archive.Data[1].Countries)
}

func TestGetSuggestions(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/search/suggestions?q=GERM")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data []model.LanguageSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "english", out.Data[0].ID)

	resp, _ = s.get(t, "/api/v1/search/suggestions")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodePoints(t *testing.T, body []byte) model.PointsResponse {
	t.Helper()
	var out model.PointsResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestGetPoints_Clustered(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/points?altitude=3")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodePoints(t, body)
	assert.Equal(t, "clustered", out.Mode)
	assert.Equal(t, "global", out.Tier)
	assert.Equal(t, 30.0, out.GridSize)
	assert.Equal(t, 0.3, out.PointRadius)
	assert.Equal(t, 1.5, out.FocusAltitude)
	require.Len(t, out.Points, 4)
	assert.Equal(t, "English (Germanic) - United Kingdom", out.Points[0].Label)
}

func TestGetPoints_DefaultAltitude(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/points")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodePoints(t, body)
	assert.Equal(t, "medium", out.Tier)
	assert.Equal(t, 0.45, out.PointRadius)
}

func TestGetPoints_LanguageBeatsQuery(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/points?altitude=3&lang=cree&q=germanic")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodePoints(t, body)
	assert.Equal(t, "language", out.Mode)
	require.Len(t, out.Points, 1)
	assert.True(t, out.Points[0].IsSingle)
	assert.Equal(t, "cree", out.Points[0].Markers[0].LanguageID)
}

func TestGetPoints_Query(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/points?altitude=3&q=%20germanic%20")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodePoints(t, body)
	assert.Equal(t, "query", out.Mode)
	require.Len(t, out.Points, 2)
	for _, p := range out.Points {
		assert.True(t, p.IsSingle)
		assert.Equal(t, "english", p.Markers[0].LanguageID)
	}
}

func TestGetPoints_InvalidAltitude(t *testing.T) {
	s := newTestServer(t)

	for _, alt := range []string{"high", "NaN", "-1", "Inf"} {
		resp, body := s.get(t, "/api/v1/globe/points?altitude="+alt)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, alt)
		assert.Contains(t, string(body), "altitude", alt)
	}
}

func TestGetPointsGeoJSON(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/points.geojson?altitude=0.5")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get(fiber.HeaderContentType))

	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "english", fc.Features[0].Properties["language_id"])
	assert.Equal(t, false, fc.Features[0].Properties["cluster"])
}

func TestGetLabels(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/labels?lang=english")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Mode string               `json:"mode"`
		Data []model.CountryLabel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "language", out.Mode)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "United Kingdom", out.Data[0].Label)
	assert.Equal(t, "United States", out.Data[1].Label)

	_, body = s.get(t, "/api/v1/globe/labels")
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "clustered", out.Mode)
	assert.Empty(t, out.Data)
}

func TestGetTier(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/globe/tier?altitude=1.2")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Tier          string  `json:"tier"`
		GridSize      float64 `json:"grid_size"`
		PointRadius   float64 `json:"point_radius"`
		FocusAltitude float64 `json:"focus_altitude"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "medium", out.Tier)
	assert.Equal(t, 10.0, out.GridSize)
	assert.Equal(t, 0.55, out.PointRadius)
	assert.Equal(t, 0.5, out.FocusAltitude)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		s.registry.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/globe/tier", "200")))
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/import/status", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/languages/cree", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, adminRequest(http.MethodGet, "/api/v1/import/status", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ready")
}

func TestImportLanguages_Multipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "extra.yaml")
	require.NoError(t, err)
	_, err = part.Write([]byte(`
- id: latin
  name: Latin
  family: Italic
  status: extinct
  locations:
    - name: Vatican City
      lat: 41.9029
      lng: 12.4534
`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := adminRequest(http.MethodPost, "/api/v1/import/languages", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, body := s.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"imported":1`)

	languages, err := s.catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, languages, 4)
	assert.Equal(t, "latin", languages[3].ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.registry.CatalogImportsTotal.WithLabelValues("ok")))
}

func TestImportLanguages_RawBodyRejectsInvalid(t *testing.T) {
	s := newTestServer(t)

	req := adminRequest(http.MethodPost, "/api/v1/import/languages?format=json",
		strings.NewReader(`[{"id": "x", "name": "X", "family": "Y", "status": "asleep", "locations": []}]`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, _ := s.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.registry.CatalogImportsTotal.WithLabelValues("error")))

	resp, _ = s.do(t, adminRequest(http.MethodPost, "/api/v1/import/languages", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, adminRequest(http.MethodGet, "/api/v1/import/export", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zstd", resp.Header.Get(fiber.HeaderContentType))

	languages, err := service.DecodeLanguages(bytes.NewReader(body), service.Format{Encoding: service.EncodingJSON, Compressed: true})
	require.NoError(t, err)
	require.Len(t, languages, 3)
	assert.Equal(t, "greek", languages[2].ID)
}

func TestDeleteLanguage(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, adminRequest(http.MethodDelete, "/api/v1/languages/cree", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.get(t, "/api/v1/languages/cree")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, adminRequest(http.MethodDelete, "/api/v1/languages/cree", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.registry.CatalogDeletesTotal))
}

func TestClearDatabase(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, adminRequest(http.MethodDelete, "/api/v1/import/clear", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := s.get(t, "/api/v1/globe/points?altitude=3")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decodePoints(t, body).Points)
}

func TestErrorHandler_MapsNotFound(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error { return service.ErrLanguageNotFound })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestGetRandomLanguage(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/api/v1/languages/random")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data model.Language `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "greek", out.Data.ID)
}

func TestGetRandomLanguage_EmptyCatalog(t *testing.T) {
	s := newTestServerWith(service.NewMemoryCatalog())

	resp, _ := s.get(t, "/api/v1/languages/random")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The recorded status matches the one the client saw.
	assert.Equal(t, float64(1), testutil.ToFloat64(
		s.registry.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/languages/random", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(
		s.registry.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/languages/random", "500")))
}

func TestSubmitAndListRequests(t *testing.T) {
	s := newTestServer(t)

	post := func(body string) (*http.Response, []byte) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return s.do(t, req)
	}

	resp, body := post(`{"name": " Ada ", "email": "ada@example.org", "info": "Wendat is missing"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	resp, body = post(`{"name": "Ada", "email": "ada-at-example", "info": "Wendat"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "email")

	resp, _ = post(`{"name": "Ada", "email": "ada@example.org", "info": "` + strings.Repeat("i", 1001) + `"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = post(`{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.get(t, "/api/v1/requests")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, adminRequest(http.MethodGet, "/api/v1/requests", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data  []model.LanguageRequest `json:"data"`
		Total int                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "Ada", out.Data[0].Name)
	assert.NotEmpty(t, out.Data[0].ID)
}

func TestImportLanguages_StorageFailure(t *testing.T) {
	s := newTestServerWith(brokenStore{Catalog: service.NewMemoryCatalog()})

	req := adminRequest(http.MethodPost, "/api/v1/import/languages?format=json", strings.NewReader(seedJSON))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := s.do(t, req)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "connection refused")
	assert.Equal(t, float64(1), testutil.ToFloat64(s.registry.CatalogImportsTotal.WithLabelValues("error")))
}
