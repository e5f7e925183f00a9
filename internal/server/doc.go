// Package server implements the playlist proxy read by the player.
//
// # Routes
//
//   - GET /api/playlist : 200 {items, fetchedAt}; 500 {error} without credentials; 502 {error, detail} when
//     YouTube fails and nothing is cached
//   - GET /healthz : liveness
//   - GET /metrics : Prometheus metrics
//
// # Caching
//
// [PlaylistCache] keeps the last snapshot in memory. Responses carry
// "Cache-Control: s-maxage=<max_age>, stale-while-revalidate=<stale_while_revalidate>" for shared caches and
// an X-Cache header (HIT, STALE or MISS) describing the in-process cache. Concurrent misses share one upstream
// request through [singleflight.Group]. Every successful fetch is persisted through a [SnapshotStore] so a
// restarted proxy can serve stale data immediately.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers in reverse
// order (last added executes first). The [BasicRouter] implementation uses [http.ServeMux] method patterns.
//
// Middleware: [Recover], [RequestID] (X-Request-ID, a UUID when the client sends none), [Logging] and
// [Metrics].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
