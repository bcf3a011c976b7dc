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

package optical

import (
	"context"
	"sync"

	"github.com/carverauto/lightpath/pkg/models"
)

type pairKey struct {
	src models.ConnectPoint
	dst models.ConnectPoint
}

type registryEntry struct {
	owner   models.IntentKey
	optical []models.IntentKey
}

// MemoryRegistry is a Registry local to one process.
type MemoryRegistry struct {
	mu        sync.Mutex
	entries   map[pairKey]*registryEntry
	byOptical map[models.IntentKey]pairKey
}

var _ Registry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries:   make(map[pairKey]*registryEntry),
		byOptical: make(map[models.IntentKey]pairKey),
	}
}

func (r *MemoryRegistry) Claim(_ context.Context, src, dst models.ConnectPoint, owner models.IntentKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{src: src, dst: dst}
	if _, ok := r.entries[key]; ok {
		return false, nil
	}

	r.entries[key] = &registryEntry{owner: owner}

	return true, nil
}

func (r *MemoryRegistry) Bind(_ context.Context, src, dst models.ConnectPoint, optical []models.IntentKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{src: src, dst: dst}

	entry, ok := r.entries[key]
	if !ok {
		return ErrRegistryEntryNotClaimed
	}

	entry.optical = append(entry.optical, optical...)
	for _, k := range optical {
		r.byOptical[k] = key
	}

	return nil
}

func (r *MemoryRegistry) Owner(_ context.Context, src, dst models.ConnectPoint) (models.IntentKey, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[pairKey{src: src, dst: dst}]
	if !ok {
		return "", false, nil
	}

	return entry.owner, true, nil
}

func (r *MemoryRegistry) Release(_ context.Context, src, dst models.ConnectPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseLocked(pairKey{src: src, dst: dst})

	return nil
}

func (r *MemoryRegistry) ReleaseByOptical(_ context.Context, k models.IntentKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byOptical[k]
	if !ok {
		return false, nil
	}

	r.releaseLocked(key)

	return true, nil
}

func (r *MemoryRegistry) releaseLocked(key pairKey) {
	entry, ok := r.entries[key]
	if !ok {
		return
	}

	for _, k := range entry.optical {
		delete(r.byOptical, k)
	}

	delete(r.entries, key)
}
