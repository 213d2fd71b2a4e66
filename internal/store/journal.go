package store

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"warehouse/internal/domain"
)

const journalFilename = "journal.json"

// JournalFileStore keeps created clusters in a single JSON file. The file
// holds either a plain JSON array or a sealed envelope of that array.
type JournalFileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewJournalFileStore returns a JournalFileStore rooted at dir.
func NewJournalFileStore(dir string) *JournalFileStore {
	return &JournalFileStore{dir: dir, now: time.Now}
}

// Path is the journal file location.
func (s *JournalFileStore) Path() string { return filepath.Join(s.dir, journalFilename) }

// Append records e. Missing ID and CreatedAt are filled in. With a
// passphrase the whole journal is rewritten sealed, which also upgrades a
// plain journal in place.
func (s *JournalFileStore) Append(passphrase string, e domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(passphrase)
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	entries = append(entries, e)
	return s.save(passphrase, entries)
}

// List returns all entries, newest first.
func (s *JournalFileStore) List(passphrase string) ([]domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(passphrase)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Find returns the newest entry for cluster id.
func (s *JournalFileStore) Find(passphrase string, id domain.ClusterID) (domain.JournalEntry, bool, error) {
	entries, err := s.List(passphrase)
	if err != nil {
		return domain.JournalEntry{}, false, err
	}
	for _, e := range entries {
		if e.ClusterID == id {
			return e, true, nil
		}
	}
	return domain.JournalEntry{}, false, nil
}

func (s *JournalFileStore) load(passphrase string) ([]domain.JournalEntry, error) {
	b, err := readFile(s.Path())
	if err != nil || b == nil {
		return nil, err
	}
	if sealed(b) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		if b, err = unseal(passphrase, b); err != nil {
			return nil, err
		}
	}
	var entries []domain.JournalEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *JournalFileStore) save(passphrase string, entries []domain.JournalEntry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if passphrase != "" {
		if b, err = seal(passphrase, b); err != nil {
			return err
		}
	}
	return writeFile(s.Path(), b, 0o600)
}

// Compile-time assertion that JournalFileStore implements domain.JournalStore.
var _ domain.JournalStore = (*JournalFileStore)(nil)
