package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/middleware"
	"github.com/snap-point/directory-api/services"
	"github.com/snap-point/directory-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	lastRequest types.SearchRequest
	lastIDs     []string
	searchErr   error
	detailsErr  error
}

func (f *fakeSearcher) Search(_ context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	f.lastRequest = req
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &types.SearchResponse{
		Businesses: []types.BusinessResult{{ID: "p1", Name: "Quick Lube", Types: []string{}}},
		Count:      1,
		Unit:       req.Unit,
	}, nil
}

func (f *fakeSearcher) GetBusinessDetails(_ context.Context, placeID string) (*types.BusinessDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return &types.BusinessDetails{ID: placeID, Name: "Quick Lube"}, nil
}

func (f *fakeSearcher) GetBusinessDetailsBatch(_ context.Context, placeIDs []string) (*services.DetailsBatchResult, error) {
	f.lastIDs = placeIDs
	result := &services.DetailsBatchResult{}
	for _, id := range placeIDs {
		result.Details = append(result.Details, &types.BusinessDetails{ID: id})
	}
	return result, nil
}

func setupRouter(searcher BusinessSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())

	sc := NewSearchController(searcher, nil)
	api := r.Group("/api")
	api.GET("/health", sc.Health)
	api.GET("/categories", sc.ListCategories)
	api.GET("/businesses/search", sc.SearchBusinesses)
	api.POST("/businesses/search", sc.SearchBusinesses)
	api.POST("/businesses/details", sc.GetBusinessDetailsBatch)
	api.GET("/businesses/:placeId", sc.GetBusinessDetails)
	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) StandardResponse {
	t.Helper()
	var resp StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSearchBusinesses_QueryString(t *testing.T) {
	searcher := &fakeSearcher{}
	r := setupRouter(searcher)

	w := perform(r, http.MethodGet, "/api/businesses/search?keyword=%20oil%20change%20&category=Detailing&location=Toronto&unit=kilometers", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	assert.Equal(t, "oil change", searcher.lastRequest.Keyword)
	assert.Equal(t, types.Category("Detailing"), searcher.lastRequest.Category)
	assert.Equal(t, "Toronto", searcher.lastRequest.Location)
	assert.Equal(t, types.UnitKilometers, searcher.lastRequest.Unit)
	assert.Nil(t, searcher.lastRequest.UserCoordinates)
}

func TestSearchBusinesses_DefaultsToMiles(t *testing.T) {
	searcher := &fakeSearcher{}
	r := setupRouter(searcher)

	w := perform(r, http.MethodGet, "/api/businesses/search?keyword=oil&latitude=43.7&longitude=-79.4", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, types.UnitMiles, searcher.lastRequest.Unit)
	require.NotNil(t, searcher.lastRequest.UserCoordinates)
	assert.Equal(t, types.Coordinates{Lat: 43.7, Lng: -79.4}, *searcher.lastRequest.UserCoordinates)
}

func TestSearchBusinesses_JSONBody(t *testing.T) {
	searcher := &fakeSearcher{}
	r := setupRouter(searcher)

	body := `{"keyword":"tires","userCoordinates":{"lat":43.65,"lng":-79.38},"unit":"miles"}`
	w := perform(r, http.MethodPost, "/api/businesses/search", body)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, searcher.lastRequest.UserCoordinates)
	assert.Equal(t, 43.65, searcher.lastRequest.UserCoordinates.Lat)
	assert.Equal(t, "tires", searcher.lastRequest.Keyword)
}

func TestSearchBusinesses_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		target string
		code   string
	}{
		{"unknown unit", "/api/businesses/search?keyword=oil&location=Toronto&unit=yards", "INVALID_REQUEST"},
		{"latitude out of range", "/api/businesses/search?keyword=oil&latitude=91&longitude=0", "INVALID_REQUEST"},
		{"latitude without longitude", "/api/businesses/search?keyword=oil&latitude=43.7", "INVALID_LOCATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{}
			r := setupRouter(searcher)

			w := perform(r, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusBadRequest, w.Code)

			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Empty(t, searcher.lastRequest.Keyword)
		})
	}
}

func TestSearchBusinesses_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing keyword", types.ErrMissingKeyword, http.StatusBadRequest, "MISSING_KEYWORD"},
		{"invalid location", types.ErrInvalidLocation, http.StatusBadRequest, "INVALID_LOCATION"},
		{"missing key", types.ErrMissingProviderKey, http.StatusInternalServerError, "MISSING_PROVIDER_KEY"},
		{"auth", &types.ProviderError{Kind: types.ErrProviderAuth, Status: types.StatusRequestDenied}, http.StatusInternalServerError, "PROVIDER_AUTH_ERROR"},
		{"unknown status", &types.ProviderError{Kind: types.ErrProviderUnknownStatus, Status: "OVER_QUERY_LIMIT"}, http.StatusInternalServerError, "PROVIDER_UNKNOWN_STATUS"},
		{"network", &types.ProviderError{Kind: types.ErrNetwork, Err: errors.New("connection refused")}, http.StatusBadGateway, "NETWORK_ERROR"},
		{"timeout", &types.ProviderError{Kind: types.ErrNetwork, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "NETWORK_ERROR"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&fakeSearcher{searchErr: tt.err})

			w := perform(r, http.MethodGet, "/api/businesses/search?keyword=oil&location=Toronto", "")
			assert.Equal(t, tt.status, w.Code)

			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestSearchBusinesses_InternalErrorIsNotLeaked(t *testing.T) {
	r := setupRouter(&fakeSearcher{searchErr: errors.New("dial tcp 10.0.0.1: secret detail")})

	w := perform(r, http.MethodGet, "/api/businesses/search?keyword=oil&location=Toronto", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestGetBusinessDetails(t *testing.T) {
	r := setupRouter(&fakeSearcher{})
	w := perform(r, http.MethodGet, "/api/businesses/abc123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"abc123"`)

	notFound := &types.ProviderError{Kind: types.ErrProviderNotFound, Status: types.StatusNotFound}
	r = setupRouter(&fakeSearcher{detailsErr: notFound})
	w = perform(r, http.MethodGet, "/api/businesses/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROVIDER_NOT_FOUND", decode(t, w).Code)
}

func TestGetBusinessDetailsBatch(t *testing.T) {
	searcher := &fakeSearcher{}
	r := setupRouter(searcher)

	w := perform(r, http.MethodPost, "/api/businesses/details", `{"placeIds":["a","b"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "b"}, searcher.lastIDs)

	ids := make([]string, 21)
	for i := range ids {
		ids[i] = fmt.Sprintf(`"p%d"`, i)
	}
	w = perform(r, http.MethodPost, "/api/businesses/details", `{"placeIds":[`+strings.Join(ids, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/api/businesses/details", `{"placeIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories(t *testing.T) {
	r := setupRouter(&fakeSearcher{})
	w := perform(r, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []services.CategoryHints `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, len(types.Categories))
}

func TestHealth(t *testing.T) {
	r := setupRouter(&fakeSearcher{})
	w := perform(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := setupRouter(&fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/search?keyword=oil&location=Toronto", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"requestId":"req-42"`)
}
