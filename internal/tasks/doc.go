// Package tasks renders movie lists with real-time progress reporting.
//
// # Core Operation
//
// [ListEngine.Load] fills a [Renderer] (usually a [Container]) for a [models.Scope]:
//
//  1. Fetches the scoped collection: /api/movies or /api/movies/{owner}
//     - On failure the target is left untouched and a wrapped [shared.ErrAPIRequest] is returned
//  2. Resets the target, then resolves every row's thumbnail in its own goroutine
//     - A failed thumbnail yields an empty image; the row still renders
//  3. Appends rows as they complete (first-completed-first-rendered), or in source order when
//     PreserveOrder is set; either way no row waits on a slower sibling to resolve
//
// Rows of the general list carry [ActionRate]; rows of an owner's list carry [ActionDelete].
//
// # Progress Reporting
//
// Updates are sent on a non-blocking channel: select with default, so a slow reader drops
// updates rather than stalling the render. Phases are [FetchMovies], [ResolveThumbnails] and
// [RowRendered]; RowRendered updates carry the [Row] in Data.
//
// # Concurrency
//
// Loads on one engine are serialized, so concurrent re-renders never interleave their rows.
// [Container] guards its rows with a mutex and may be read while a load is in flight.
package tasks
