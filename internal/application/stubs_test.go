package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/campus-booking/internal/persistence"
)

type memoryStore struct {
	mu        sync.Mutex
	doc       persistence.Document
	written   bool
	writeErr  error
	loadErr   error
	saveCalls int
}

func newMemoryStore(doc persistence.Document) *memoryStore {
	doc.Normalize()
	return &memoryStore{doc: doc.Clone()}
}

func (m *memoryStore) Load(ctx context.Context) (persistence.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return persistence.Document{}, m.loadErr
	}
	return m.doc.Clone(), nil
}

func (m *memoryStore) Save(ctx context.Context, doc persistence.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(doc)
}

func (m *memoryStore) Update(ctx context.Context, mutate func(*persistence.Document) error) (persistence.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return persistence.Document{}, m.loadErr
	}
	doc := m.doc.Clone()
	if err := mutate(&doc); err != nil {
		return persistence.Document{}, err
	}
	if err := m.saveLocked(doc); err != nil {
		return persistence.Document{}, err
	}
	return doc, nil
}

func (m *memoryStore) Exists(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written, nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) saveLocked(doc persistence.Document) error {
	m.saveCalls++
	if m.writeErr != nil {
		return fmt.Errorf("%w: %v", persistence.ErrWriteFailed, m.writeErr)
	}
	m.doc = doc.Clone()
	m.written = true
	return nil
}

func (m *memoryStore) snapshot() persistence.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone()
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// plainHash and plainVerify keep tests fast; the real Argon2id path is
// covered in password_test.go.
func plainHash(password string) (string, error) {
	return "hashed:" + password, nil
}

func plainVerify(stored, password string) error {
	if strings.TrimPrefix(stored, "hashed:") == password && strings.HasPrefix(stored, "hashed:") {
		return nil
	}
	return ErrInvalidCredentials
}

type tokenStub struct {
	issued map[string]string
	expiry time.Time
}

func newTokenStub(expiry time.Time) *tokenStub {
	return &tokenStub{issued: make(map[string]string), expiry: expiry}
}

func (t *tokenStub) Issue(userID, registrationNumber string) (string, time.Time, error) {
	token := "token-" + userID
	t.issued[token] = userID
	return token, t.expiry, nil
}

func (t *tokenStub) Verify(token string) (string, time.Time, error) {
	userID, ok := t.issued[token]
	if !ok {
		return "", time.Time{}, errors.New("unknown token")
	}
	return userID, t.expiry, nil
}

type observerStub struct {
	created   []string
	cancelled int
	conflicts []bool
}

func (o *observerStub) BookingCreated(resourceType string) {
	o.created = append(o.created, resourceType)
}

func (o *observerStub) BookingCancelled() {
	o.cancelled++
}

func (o *observerStub) ConflictDetected(rejected bool) {
	o.conflicts = append(o.conflicts, rejected)
}

func seededDocument() persistence.Document {
	doc := persistence.EmptyDocument()
	doc.Resources = persistence.SeedResources()
	return doc
}
