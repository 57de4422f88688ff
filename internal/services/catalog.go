// Movie catalog [Catalog] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
)

// Endpoint paths of the catalog service.
const (
	PathRegister  = "/api/users"
	PathLogin     = "/api/login"
	PathLogout    = "/logout"
	PathMovies    = "/api/movies"
	PathAddMovie  = "/api/add-movie"
	PathThumbnail = "/api/thumbnail"
)

// CatalogService implements the Catalog interface on top of [APIService].
type CatalogService struct {
	api *APIService
}

// NewCatalogService creates a CatalogService using api for transport.
func NewCatalogService(api *APIService) *CatalogService {
	return &CatalogService{api: api}
}

// Register creates an account.
//
// Calls POST /api/users. The response body is decoded whatever the status.
func (c *CatalogService) Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return c.authenticate(ctx, PathRegister, creds)
}

// Login authenticates an existing account.
//
// Calls POST /api/login. The response body is decoded whatever the status.
func (c *CatalogService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return c.authenticate(ctx, PathLogin, creds)
}

func (c *CatalogService) authenticate(ctx context.Context, path string, creds models.Credentials) (*models.AuthResponse, error) {
	data, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	resp, err := c.api.Post(ctx, path, data)
	if err != nil {
		return nil, err
	}

	var out models.AuthResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout calls POST /logout with no body and returns the status code.
func (c *CatalogService) Logout(ctx context.Context) (int, error) {
	resp, err := c.api.Post(ctx, PathLogout, nil)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

// ListMovies calls GET /api/movies, or GET /api/movies/{owner} for an owned scope.
func (c *CatalogService) ListMovies(ctx context.Context, scope models.Scope) ([]models.MovieSummary, error) {
	path := PathMovies
	if scope.IsOwned() {
		path += "/" + url.PathEscape(scope.Owner)
	}

	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	var movies []models.MovieSummary
	if err := resp.Decode(&movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// AddMovie calls POST /api/add-movie with the image as a numeric byte array.
func (c *CatalogService) AddMovie(ctx context.Context, draft models.NewMovieDraft) (*models.MessageResponse, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movie: %w", err)
	}

	resp, err := c.api.Post(ctx, PathAddMovie, data)
	if err != nil {
		return nil, err
	}

	var out models.MessageResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Thumbnail calls GET /api/thumbnail/{ref} and decodes the JSON byte array.
func (c *CatalogService) Thumbnail(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: thumbnail ref", shared.ErrMissingArgument)
	}

	path := PathThumbnail + "/" + url.PathEscape(ref)
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	var data models.ByteArray
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
