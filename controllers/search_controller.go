package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/middleware"
	"github.com/snap-point/directory-api/services"
	"github.com/snap-point/directory-api/types"
)

// BusinessSearcher is the search core the controller serves.
type BusinessSearcher interface {
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error)
	GetBusinessDetails(ctx context.Context, placeID string) (*types.BusinessDetails, error)
	GetBusinessDetailsBatch(ctx context.Context, placeIDs []string) (*services.DetailsBatchResult, error)
}

type SearchController struct {
	Searcher BusinessSearcher
	Logger   *slog.Logger
}

func NewSearchController(searcher BusinessSearcher, logger *slog.Logger) *SearchController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchController{Searcher: searcher, Logger: logger}
}

type SearchQuery struct {
	Keyword         string             `form:"keyword" json:"keyword"`
	Category        string             `form:"category" json:"category"`
	Location        string             `form:"location" json:"location"`
	Latitude        *float64           `form:"latitude" json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude       *float64           `form:"longitude" json:"longitude" binding:"omitempty,min=-180,max=180"`
	UserCoordinates *types.Coordinates `form:"-" json:"userCoordinates"`
	Unit            string             `form:"unit" json:"unit" binding:"omitempty,oneof=miles kilometers"`
}

type DetailsBatchRequest struct {
	PlaceIDs []string `json:"placeIds" binding:"required,min=1,max=20,dive,required"`
}

var errCoordinatePair = errors.New("latitude and longitude must be supplied together")

// toSearchRequest trims free-text fields and resolves the coordinate pair.
func (q SearchQuery) toSearchRequest() (types.SearchRequest, error) {
	req := types.SearchRequest{
		Keyword:  strings.TrimSpace(q.Keyword),
		Category: types.Category(strings.TrimSpace(q.Category)),
		Location: strings.TrimSpace(q.Location),
		Unit:     types.Unit(q.Unit).Normalize(),
	}

	switch {
	case q.UserCoordinates != nil:
		coords := *q.UserCoordinates
		req.UserCoordinates = &coords
	case q.Latitude != nil && q.Longitude != nil:
		req.UserCoordinates = &types.Coordinates{Lat: *q.Latitude, Lng: *q.Longitude}
	case q.Latitude != nil || q.Longitude != nil:
		return req, errCoordinatePair
	}

	return req, nil
}

// SearchBusinesses godoc
// @Summary Search nearby automotive businesses
// @Tags businesses
// @Accept json
// @Produce json
// @Param keyword query string false "Free-text keyword"
// @Param category query string false "Logical category, e.g. Detailing"
// @Param location query string false "Place name"
// @Param latitude query number false "User latitude"
// @Param longitude query number false "User longitude"
// @Param unit query string false "miles or kilometers"
// @Success 200 {object} types.SearchResponse
// @Router /businesses/search [get]
func (sc *SearchController) SearchBusinesses(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBind(&query); err != nil {
		sc.badRequest(c, err)
		return
	}

	req, err := query.toSearchRequest()
	if err != nil {
		sc.fail(c, fmt.Errorf("%w: %v", types.ErrInvalidLocation, err))
		return
	}

	resp, err := sc.Searcher.Search(c.Request.Context(), req)
	if err != nil {
		sc.fail(c, err)
		return
	}

	sc.ok(c, resp)
}

// GetBusinessDetails godoc
// @Summary Get the detail record of one business
// @Tags businesses
// @Produce json
// @Param placeId path string true "Provider place ID"
// @Success 200 {object} types.BusinessDetails
// @Router /businesses/{placeId} [get]
func (sc *SearchController) GetBusinessDetails(c *gin.Context) {
	details, err := sc.Searcher.GetBusinessDetails(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		sc.fail(c, err)
		return
	}
	sc.ok(c, details)
}

// GetBusinessDetailsBatch godoc
// @Summary Get detail records for up to 20 businesses
// @Tags businesses
// @Accept json
// @Produce json
// @Success 200 {object} services.DetailsBatchResult
// @Router /businesses/details [post]
func (sc *SearchController) GetBusinessDetailsBatch(c *gin.Context) {
	var body DetailsBatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		sc.badRequest(c, err)
		return
	}

	result, err := sc.Searcher.GetBusinessDetailsBatch(c.Request.Context(), body.PlaceIDs)
	if err != nil {
		sc.fail(c, err)
		return
	}
	sc.ok(c, result)
}

// ListCategories returns the supported categories and their place-type hints.
func (sc *SearchController) ListCategories(c *gin.Context) {
	sc.ok(c, services.CategoryTable())
}

func (sc *SearchController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (sc *SearchController) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    data,
		Meta:    ResponseMeta{RequestID: middleware.RequestID(c)},
	})
}

func (sc *SearchController) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, StandardResponse{
		Success: false,
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
		Meta:    ResponseMeta{RequestID: middleware.RequestID(c)},
	})
}

func (sc *SearchController) fail(c *gin.Context, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError && types.ErrorCode(err) == "INTERNAL_ERROR" {
		message = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		sc.Logger.Error("request failed", "path", c.FullPath(), "request_id", middleware.RequestID(c), "err", err)
	}

	c.JSON(status, StandardResponse{
		Success: false,
		Code:    types.ErrorCode(err),
		Message: message,
		Meta:    ResponseMeta{RequestID: middleware.RequestID(c)},
	})
}

// StatusForError maps an error kind to its HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrMissingKeyword), errors.Is(err, types.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrProviderNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrNetwork):
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
