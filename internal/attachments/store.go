// Package attachments holds uploaded image and PDF-page data in memory.
// Nothing is ever written to disk: entries live from upload until they are
// consumed by a generation request or the owning session disconnects,
// whichever comes first.
package attachments

import (
	"fmt"
	"strings"
	"sync"

	"aiconsole/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type record struct {
	session string
	pages   [][]byte
}

// Store is a shared in-memory attachment store keyed by opaque ids. All
// access goes through the mutex; entries are written once on upload and
// deleted at most twice defensively (on consumption and on disconnect), so
// Delete tolerates already-gone ids.
type Store struct {
	mu      sync.Mutex
	entries map[string]record
	log     *zap.SugaredLogger
}

func NewStore(log *zap.SugaredLogger) *Store {
	return &Store{
		entries: make(map[string]record),
		log:     log,
	}
}

// Put stores the encoded pages of one upload for the given session and
// returns the new attachment id. An image contributes one page; a PDF one
// page per rendered sheet.
func (s *Store) Put(sessionID string, pages [][]byte) string {
	id := fmt.Sprintf("%s_%s", sessionID, uuid.NewString())
	s.mu.Lock()
	s.entries[id] = record{session: sessionID, pages: pages}
	size := len(s.entries)
	s.mu.Unlock()
	metrics.StoredAttachments.Set(float64(size))
	return id
}

// Resolve returns the pages for an attachment id. The id is only valid for
// the session that created it; a lookup from any other session behaves like a
// miss.
func (s *Store) Resolve(sessionID, id string) ([][]byte, bool) {
	s.mu.Lock()
	rec, ok := s.entries[id]
	s.mu.Unlock()
	if !ok || rec.session != sessionID {
		return nil, false
	}
	return rec.pages, true
}

// Delete removes an attachment. Deleting an id that is already gone is a
// no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	size := len(s.entries)
	s.mu.Unlock()
	metrics.StoredAttachments.Set(float64(size))
}

// PurgeSession removes every attachment owned by the session and returns how
// many were dropped. Called on disconnect.
func (s *Store) PurgeSession(sessionID string) int {
	prefix := sessionID + "_"
	s.mu.Lock()
	removed := 0
	for id := range s.entries {
		if strings.HasPrefix(id, prefix) {
			delete(s.entries, id)
			removed++
		}
	}
	size := len(s.entries)
	s.mu.Unlock()
	metrics.StoredAttachments.Set(float64(size))
	if removed > 0 {
		s.log.Infow("purged session attachments", "session_id", sessionID, "count", removed)
	}
	return removed
}

// Len reports the number of stored attachments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
