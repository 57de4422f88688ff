// Package server provides HTTP routing, middleware, and the local movie preview pages.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] runs in the order it was added; the first added is the outermost wrapper.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; routes are registered as
// method-qualified patterns ("GET /movies"), so mismatched methods get a 405 from the mux.
//
// # Preview Pages
//
// [PreviewHandler] renders movie lists as HTML with inline thumbnails, using a fresh
// ListEngine pass per request:
//
//	GET  /                        → redirect to /movies
//	GET  /movies                  → every movie, with rating forms
//	GET  /my-movies               → the signed-in user's movies, with delete buttons
//	POST /movies/{id}/rating      → rating placeholder (501)
//	POST /my-movies/{id}/delete   → delete placeholder (501)
//	POST /logout                  → expire the session and redirect
//
// The navigation bar is built from a ui.Menu after the session gate has been applied.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
