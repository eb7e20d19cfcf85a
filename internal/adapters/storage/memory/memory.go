// Package memory implements ports.StorageProvider in process memory. It backs
// tests and STORAGE_PROVIDER=memory for local runs.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"asciify/internal/ports"
)

type object struct {
	data        []byte
	contentType string
}

// Store holds objects per container. A Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	puts    int
}

func New() *Store { return &Store{objects: make(map[string]object)} }

// Bucket returns a provider view of one container of the store.
func (s *Store) Bucket(container string) *Bucket {
	return &Bucket{store: s, container: container}
}

// Puts counts successful PutObject calls across all containers.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Keys lists container/key pairs in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Bucket struct {
	store     *Store
	container string
}

func (b *Bucket) Provider() string  { return "memory" }
func (b *Bucket) Container() string { return b.container }

func (b *Bucket) path(key string) string { return b.container + "/" + key }

// PutObject overwrites any existing object with the same key.
func (b *Bucket) PutObject(_ context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	data, err := ports.ReadBody(in)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.store.objects[b.path(in.ObjectKey)] = object{data: data, contentType: in.ContentType}
	b.store.puts++
	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: int64(len(data))}, nil
}

func (b *Bucket) GetObject(_ context.Context, objectKey string) (io.ReadCloser, string, int64, error) {
	b.store.mu.RLock()
	obj, ok := b.store.objects[b.path(objectKey)]
	b.store.mu.RUnlock()
	if !ok {
		return nil, "", 0, fmt.Errorf("blob %s not found", b.path(objectKey))
	}
	cp := bytes.Clone(obj.data)
	return io.NopCloser(bytes.NewReader(cp)), obj.contentType, int64(len(cp)), nil
}

func (b *Bucket) DeleteObject(_ context.Context, objectKey string) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if _, ok := b.store.objects[b.path(objectKey)]; !ok {
		return fmt.Errorf("blob %s not found", b.path(objectKey))
	}
	delete(b.store.objects, b.path(objectKey))
	return nil
}

// Get returns a copy of the object body, for assertions.
func (b *Bucket) Get(objectKey string) ([]byte, bool) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	obj, ok := b.store.objects[b.path(objectKey)]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// List returns keys in this container with the given prefix.
func (b *Bucket) List(prefix string) []string {
	var out []string
	for _, k := range b.store.Keys() {
		key, ok := strings.CutPrefix(k, b.container+"/")
		if ok && strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}
