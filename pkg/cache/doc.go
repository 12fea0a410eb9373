// Package cache backs the daemon's webhook seen-set with either an
// in-process store or Redis behind one generic [Cache] interface.
//
// Deployments with a single instance run [NewMemory]; fleets point
// [NewRedis] at a shared instance so a replayed provider event is
// suppressed no matter which instance receives it.
//
// TTL semantics for Set:
//   - positive: entry expires after the duration
//   - zero: the backend's configured default TTL (one hour unless set)
//   - negative: entry never expires
//
// # In-memory
//
//	seen := cache.NewMemory[struct{}](
//	    cache.WithDefaultTTL(24 * time.Hour),
//	    cache.WithMaxEntries(100_000),
//	)
//	defer seen.Close()
//
//	seen.Set(ctx, eventID, struct{}{}, 0) // default TTL
//	dup, _ := seen.Has(ctx, eventID)
//
// Expired entries are swept by a background goroutine; stopping it is
// what Close is for. [WithMaxEntries] additionally caps the store with
// LRU eviction.
//
// # Redis
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	seen := cache.NewRedis[struct{}](client, nil,
//	    cache.WithPrefix("webhook:seen"),
//	    cache.WithRedisDefaultTTL(24 * time.Hour),
//	)
//
// The second argument is a [Marshaler]; nil selects JSON. Prefixed
// caches Clear only their own keyspace, via SCAN.
//
// # Errors
//
// [ErrNotFound] marks a miss, [ErrClosed] a write after Close, and
// [ErrMarshal]/[ErrUnmarshal] wrap serialization failures. Check with
// [errors.Is]:
//
//	_, err := seen.Get(ctx, eventID)
//	if errors.Is(err, cache.ErrNotFound) {
//	    // first sighting
//	}
package cache
