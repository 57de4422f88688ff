// Package services talks to the movie catalog HTTP service.
//
// # Raw Access
//
// [APIService] performs raw requests and returns an [APIResponse] carrying status, headers, body and
// decoded JSON when the body parses. Every request is tagged with an X-Request-ID header.
//
// # Catalog Interface
//
// [Catalog] is the typed surface used by the rest of the client, implemented by [CatalogService]:
//   - Register / Login : POST credentials, answer with [models.AuthResponse]
//   - Logout : POST /logout, answer with the status code
//   - ListMovies : GET /api/movies or /api/movies/{username} depending on [models.Scope]
//   - AddMovie : POST a [models.NewMovieDraft], answer with [models.MessageResponse]
//   - Thumbnail : GET /api/thumbnail/{ref}, a JSON byte array
//
// # Error Handling
//
// Endpoint errors (an "error" field in the body) are returned as data, not Go errors.
// Transport and decode failures wrap [shared.ErrAPIRequest] or [shared.ErrMalformedResponse].
//
// # Session
//
// The HTTP client built by [NewHTTPClient] carries a [session.Jar], so cookies the service sets on
// login are stored and replayed without the callers handling them.
package services
