// Package mock provides an in-memory blob.Store for tests.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Store struct {
	mu      sync.Mutex
	objects map[string]string // key -> source path at upload time

	UploadErr   error
	DownloadErr error
	PresignErr  error
	// FailUploadKeys makes Upload fail for specific keys only.
	FailUploadKeys map[string]error
}

func NewStore() *Store {
	return &Store{objects: make(map[string]string)}
}

func (s *Store) Upload(_ context.Context, key, localPath, _ string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	if err, ok := s.FailUploadKeys[key]; ok {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = localPath
	return key, nil
}

func (s *Store) Download(_ context.Context, key, _ string) error {
	if s.DownloadErr != nil {
		return s.DownloadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	return nil
}

func (s *Store) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.PresignErr != nil {
		return "", s.PresignErr
	}
	return "https://blobs.test/" + key, nil
}

func (s *Store) PublicURL(key string) string {
	return "https://blobs.test/" + key
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Has reports whether an object was uploaded and not deleted.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}
