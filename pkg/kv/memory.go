/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package kv

import (
	"context"
	"sync"
)

type memoryEntry struct {
	value    []byte
	revision uint64
}

// MemoryStore is a KVStore held in process memory. It backs single node
// deployments and tests. Revisions come from one counter shared by all keys,
// like the sequence of a JetStream bucket. Entries never expire.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]memoryEntry
	revision uint64
}

var _ KVStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, _, found, err := s.GetEntry(ctx, key)

	return value, found, err
}

func (s *MemoryStore) GetEntry(_ context.Context, key string) ([]byte, uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, 0, false, nil
	}

	return append([]byte(nil), e.value...), e.revision, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.storeLocked(key, value)

	return nil
}

func (s *MemoryStore) Create(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		return ErrKeyExists
	}

	s.storeLocked(key, value)

	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, value []byte, revision uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.data[key]; !ok || e.revision != revision {
		return ErrRevisionMismatch
	}

	s.storeLocked(key, value)

	return nil
}

func (s *MemoryStore) storeLocked(key string, value []byte) {
	s.revision++
	s.data[key] = memoryEntry{value: append([]byte(nil), value...), revision: s.revision}
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}

func (*MemoryStore) Close() error { return nil }
