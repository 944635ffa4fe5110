package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/controllers"
	"github.com/snap-point/directory-api/services"
	"github.com/snap-point/directory-api/types"
	"github.com/stretchr/testify/assert"
)

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, types.SearchRequest) (*types.SearchResponse, error) {
	return &types.SearchResponse{Businesses: []types.BusinessResult{}, Unit: types.UnitMiles}, nil
}

func (stubSearcher) GetBusinessDetails(_ context.Context, placeID string) (*types.BusinessDetails, error) {
	return &types.BusinessDetails{ID: placeID}, nil
}

func (stubSearcher) GetBusinessDetailsBatch(context.Context, []string) (*services.DetailsBatchResult, error) {
	return &services.DetailsBatchResult{}, nil
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, controllers.NewSearchController(stubSearcher{}, nil), []string{"*"})

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodGet, "/api/businesses/search?keyword=oil&location=Toronto", "", http.StatusOK},
		{http.MethodPost, "/api/businesses/search", `{"keyword":"oil","location":"Toronto"}`, http.StatusOK},
		{http.MethodPost, "/api/businesses/details", `{"placeIds":["a"]}`, http.StatusOK},
		{http.MethodGet, "/api/businesses/abc", "", http.StatusOK},
		{http.MethodGet, "/api/places/nearby", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
