package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/storage"
)

// Fingerprint derives a stable cache key from the reference images and the
// ordered scalar generation parameters. Images contribute a short content hash
// plus their length, so two requests share a key only when every input byte
// and every parameter match.
func Fingerprint(refImages [][]byte, params ...string) string {
	var b strings.Builder
	for _, img := range refImages {
		sum := sha256.Sum256(img)
		fmt.Fprintf(&b, "img:%s:%d|", hex.EncodeToString(sum[:8]), len(img))
	}
	for _, p := range params {
		fmt.Fprintf(&b, "p:%s|", p)
	}
	final := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(final[:])
}

// Store is a get-or-compute cache for generated PNGs. Entries are content
// addressed by fingerprint and never evicted from disk; a small in-memory
// layer absorbs repeated lookups within a process, and singleflight collapses
// concurrent computations of the same key into one upstream call.
type Store struct {
	files  *storage.FileStore
	memory *gocache.Cache
	group  singleflight.Group
	logger infra.Logger
}

// NewStore builds a Store backed by the given file store.
func NewStore(files *storage.FileStore, logger infra.Logger) *Store {
	return &Store{
		files:  files,
		memory: gocache.New(30*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// ComputeFunc produces the bytes for a cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// GetOrCompute returns the cached bytes for key, computing and persisting them
// on a miss. The second return reports whether the entry was already cached.
// Compute errors are not cached; the next caller retries.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, bool, error) {
	if data, ok := s.memory.Get(key); ok {
		return data.([]byte), true, nil
	}

	fileKey := key + ".png"
	if s.files.Exists(fileKey) {
		data, err := s.files.Read(ctx, fileKey)
		if err == nil {
			s.memory.SetDefault(key, data)
			return data, true, nil
		}
		s.logger.Warn().Err(err).Str("key", key).Msg("cache file unreadable, recomputing")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have finished.
		if data, ok := s.memory.Get(key); ok {
			return data.([]byte), nil
		}
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := s.files.Write(ctx, fileKey, data); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		s.memory.SetDefault(key, data)
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Get returns the cached bytes for key without computing on a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := s.memory.Get(key); ok {
		return data.([]byte), true
	}
	fileKey := key + ".png"
	if !s.files.Exists(fileKey) {
		return nil, false
	}
	data, err := s.files.Read(ctx, fileKey)
	if err != nil {
		return nil, false
	}
	s.memory.SetDefault(key, data)
	return data, true
}
