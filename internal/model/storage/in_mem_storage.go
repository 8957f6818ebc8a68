package storage

import (
	"context"
	"sync"
)

type InMemStorage struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{docs: make(map[string]Document)}
}

func (s *InMemStorage) FindByCredentials(_ context.Context, username, password string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[username]
	if !ok || doc.Password != password {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *InMemStorage) Get(_ context.Context, username string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[username]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *InMemStorage) Insert(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[doc.Username]; ok {
		return ErrExists
	}
	s.docs[doc.Username] = cloneDocument(doc)
	return nil
}

func (s *InMemStorage) UpdateBody(_ context.Context, username string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[username]
	if !ok {
		return ErrNotFound
	}
	doc.Body = append([]byte(nil), body...)
	s.docs[username] = doc
	return nil
}

func (s *InMemStorage) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, username)
	return nil
}

func (s *InMemStorage) Close() error {
	return nil
}

func cloneDocument(doc Document) Document {
	doc.Body = append([]byte(nil), doc.Body...)
	return doc
}
