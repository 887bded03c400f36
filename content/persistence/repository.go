package persistence

import (
	"fmt"
	"sort"
	"time"

	"github.com/dfryer1193/inkwell/content/domain"
	"github.com/rs/zerolog/log"
)

// Repository is the immutable key→Post mapping produced by one compilation
// pass. After construction it is read-only and safe for unsynchronized
// concurrent reads; a rebuild produces a new Repository rather than mutating
// this one.
type Repository struct {
	posts map[string]*domain.Post
}

// NewRepository wraps a finished key→Post map. The caller hands over
// ownership of the map and must not mutate it afterward.
func NewRepository(posts map[string]*domain.Post) *Repository {
	if posts == nil {
		posts = make(map[string]*domain.Post)
	}
	return &Repository{posts: posts}
}

// Len returns the number of compiled posts.
func (r *Repository) Len() int {
	return len(r.posts)
}

// Get returns the post for key. A miss returns an error that names the key
// and enumerates the available keys, and matches domain.ErrNotFound.
func (r *Repository) Get(key string) (*domain.Post, error) {
	post, ok := r.posts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", domain.ErrNotFound, key, r.Keys())
	}
	return post, nil
}

// MustGet returns the post for key, terminating the process when the key is
// absent. Only for callers that assert the key must exist, such as template
// code referencing a fixed post.
func (r *Repository) MustGet(key string) *domain.Post {
	post, err := r.Get(key)
	if err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("Required post is missing")
	}
	return post
}

// All returns every compiled post in map iteration order. Callers needing a
// deterministic order compose with ByDateDesc.
func (r *Repository) All() []*domain.Post {
	posts := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p)
	}
	return posts
}

// Keys returns the set of compiled post keys, sorted.
func (r *Repository) Keys() []string {
	keys := make([]string, 0, len(r.posts))
	for k := range r.posts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ByDateDesc returns posts sorted most recent first. The sort is stable, so
// posts sharing a datetime keep their input order. The input slice is not
// modified.
func ByDateDesc(posts []*domain.Post) []*domain.Post {
	sorted := make([]*domain.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime.After(sorted[j].DateTime)
	})
	return sorted
}

// WithoutDrafts returns only the posts with Draft unset, preserving the
// relative order of the survivors.
func WithoutDrafts(posts []*domain.Post) []*domain.Post {
	kept := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if !p.Draft {
			kept = append(kept, p)
		}
	}
	return kept
}

// PublishedBefore returns only the posts dated strictly earlier than ref,
// preserving order. A post dated exactly at ref is excluded.
func PublishedBefore(posts []*domain.Post, ref time.Time) []*domain.Post {
	kept := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.DateTime.Before(ref) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Published returns only the posts dated before now, excluding future-dated
// posts.
func Published(posts []*domain.Post) []*domain.Post {
	return PublishedBefore(posts, time.Now())
}
