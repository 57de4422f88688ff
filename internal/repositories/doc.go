// Package repositories implements SQLite persistence for client-side state.
//
// Key Implementations:
//   - [CookieRepository] : the default [session.Store], one row per cookie in the cookies table
//   - [ThumbnailRepository] : the [thumbnail.Cache], resolved images keyed by reference
//
// Both operate on a database opened and migrated by [shared.OpenDatabase].
package repositories
