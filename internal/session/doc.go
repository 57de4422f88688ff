// Package session holds the cookie-equivalent state the catalog service issues on login.
//
// Entries live behind the [Store] interface so callers never read ambient state directly:
//   - [MemoryStore] : process-local, used by tests and the "memory" backend
//   - [RedisStore] : shared across processes, keys prefixed and expired by redis
//   - repositories.CookieRepository : the default sqlite-backed store
//
// [Jar] adapts any Store to [net/http.CookieJar] so Set-Cookie headers from the service
// become entries and are replayed on later requests. [CurrentUsername] derives the
// signed-in user from the "username" entry and never fails.
package session
