package database

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	usersCollection     = "users"
	analyticsCollection = "analytics"
)

// Backend reads and writes whole named documents.
type Backend interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Store is the persisted record store. Every mutation is a whole-document
// read-modify-write guarded by a single mutex; readers outside an update see
// the last written state. A missing or unparsable document reads as the
// empty default.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) readUsers() []User {
	var users []User
	data, err := s.backend.Read(usersCollection)
	if err != nil {
		return users
	}
	if err := json.Unmarshal(data, &users); err != nil {
		log.Printf("store: discarding unparsable %s document: %v", usersCollection, err)
		return nil
	}
	return users
}

func (s *Store) writeUsers(users []User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return s.backend.Write(usersCollection, data)
}

func (s *Store) readAnalytics() AnalyticsLog {
	var analytics AnalyticsLog
	data, err := s.backend.Read(analyticsCollection)
	if err != nil {
		return analytics
	}
	if err := json.Unmarshal(data, &analytics); err != nil {
		log.Printf("store: discarding unparsable %s document: %v", analyticsCollection, err)
		return AnalyticsLog{}
	}
	return analytics
}

func (s *Store) writeAnalytics(analytics AnalyticsLog) error {
	data, err := json.MarshalIndent(analytics, "", "  ")
	if err != nil {
		return err
	}
	return s.backend.Write(analyticsCollection, data)
}

// Users returns a snapshot of the user table.
func (s *Store) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readUsers()
}

// UpdateUsers applies fn to the user table and persists the result. The
// whole cycle holds the store lock, so concurrent mutations serialize
// instead of losing writes.
func (s *Store) UpdateUsers(fn func(users []User) ([]User, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := fn(s.readUsers())
	if err != nil {
		return err
	}
	return s.writeUsers(users)
}

// Analytics returns a snapshot of the event log.
func (s *Store) Analytics() AnalyticsLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAnalytics()
}

// UpdateAnalytics applies fn to the event log and persists the result under
// the store lock.
func (s *Store) UpdateAnalytics(fn func(analytics *AnalyticsLog)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	analytics := s.readAnalytics()
	fn(&analytics)
	return s.writeAnalytics(analytics)
}

// FileBackend stores each collection as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.dir, name+".json"))
}

func (b *FileBackend) Write(name string, data []byte) error {
	return os.WriteFile(filepath.Join(b.dir, name+".json"), data, 0o644)
}
