package api

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/effblob/pkg/eff"
)

// Blob is a stored, decoded container.
type Blob struct {
	ID        string
	Order     eff.ByteOrder
	Size      int
	CreatedAt time.Time
	Container *eff.Container
}

func (r *Blob) response() BlobResponse {
	return BlobResponse{
		ID:        r.ID,
		Object:    "blob",
		Order:     r.Order.String(),
		Size:      r.Size,
		CreatedAt: r.CreatedAt.Unix(),
		Stats:     r.Container.Stats(),
	}
}

// BlobStore keeps decoded containers in memory. Stored containers are never
// mutated, so handlers may encode them without holding the lock.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]*Blob
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string]*Blob)}
}

func (s *BlobStore) Create(c *eff.Container, order eff.ByteOrder, size int, now time.Time) *Blob {
	rec := &Blob{
		ID:        newBlobID(),
		Order:     order,
		Size:      size,
		CreatedAt: now,
		Container: c,
	}
	s.mu.Lock()
	s.blobs[rec.ID] = rec
	s.mu.Unlock()
	return rec
}

func (s *BlobStore) Get(id string) (*Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.blobs[id]
	return rec, ok
}

func (s *BlobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[id]; !ok {
		return false
	}
	delete(s.blobs, id)
	return true
}

// List returns the stored blobs, oldest first.
func (s *BlobStore) List() []*Blob {
	s.mu.RLock()
	out := make([]*Blob, 0, len(s.blobs))
	for _, rec := range s.blobs {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Blob) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

func newBlobID() string {
	return "blob_" + uuid.NewString()
}
