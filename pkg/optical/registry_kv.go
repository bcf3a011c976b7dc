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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/lightpath/pkg/kv"
	"github.com/carverauto/lightpath/pkg/models"
)

const (
	pairKeyPrefix    = "pair."
	opticalKeyPrefix = "optical."
)

// KVRegistry is a Registry shared by every node through a key/value bucket.
// Claims rely on the bucket's create-if-absent semantics, so two nodes can
// never hold the same pair. With a TTL on the bucket, the pairs claimed here
// stay alive only while Refresh keeps rewriting them.
type KVRegistry struct {
	store kv.KVStore

	mu   sync.Mutex
	held map[string]struct{}
}

var _ Registry = (*KVRegistry)(nil)

type kvRegistryEntry struct {
	Owner   models.IntentKey   `json:"owner"`
	Optical []models.IntentKey `json:"optical,omitempty"`
}

func NewKVRegistry(store kv.KVStore) *KVRegistry {
	return &KVRegistry{store: store, held: make(map[string]struct{})}
}

// NATS KV keys only allow a restricted alphabet, device ids routinely contain ':'.
func encodeKeyPart(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func pairStorageKey(src, dst models.ConnectPoint) string {
	return pairKeyPrefix + encodeKeyPart(src.String()) + "." + encodeKeyPart(dst.String())
}

func opticalStorageKey(key models.IntentKey) string {
	return opticalKeyPrefix + encodeKeyPart(string(key))
}

func (r *KVRegistry) Claim(ctx context.Context, src, dst models.ConnectPoint, owner models.IntentKey) (bool, error) {
	data, err := json.Marshal(kvRegistryEntry{Owner: owner})
	if err != nil {
		return false, err
	}

	err = r.store.Create(ctx, pairStorageKey(src, dst), data)
	if errors.Is(err, kv.ErrKeyExists) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to claim %s -> %s: %w", src, dst, err)
	}

	r.hold(pairStorageKey(src, dst))

	return true, nil
}

func (r *KVRegistry) Bind(ctx context.Context, src, dst models.ConnectPoint, optical []models.IntentKey) error {
	key := pairStorageKey(src, dst)

	entry, found, err := r.load(ctx, key)
	if err != nil {
		return err
	}

	if !found {
		return ErrRegistryEntryNotClaimed
	}

	entry.Optical = append(entry.Optical, optical...)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		return err
	}

	for _, k := range optical {
		if err := r.store.Put(ctx, opticalStorageKey(k), []byte(key)); err != nil {
			return err
		}
	}

	return nil
}

func (r *KVRegistry) Owner(ctx context.Context, src, dst models.ConnectPoint) (models.IntentKey, bool, error) {
	entry, found, err := r.load(ctx, pairStorageKey(src, dst))
	if err != nil || !found {
		return "", false, err
	}

	return entry.Owner, true, nil
}

func (r *KVRegistry) Release(ctx context.Context, src, dst models.ConnectPoint) error {
	return r.release(ctx, pairStorageKey(src, dst))
}

func (r *KVRegistry) ReleaseByOptical(ctx context.Context, k models.IntentKey) (bool, error) {
	pair, found, err := r.store.Get(ctx, opticalStorageKey(k))
	if err != nil || !found {
		return false, err
	}

	if err := r.release(ctx, string(pair)); err != nil {
		return false, err
	}

	return true, nil
}

func (r *KVRegistry) release(ctx context.Context, key string) error {
	entry, found, err := r.load(ctx, key)
	if err != nil {
		return err
	}

	if !found {
		r.forget(key)

		return nil
	}

	for _, k := range entry.Optical {
		if err := r.store.Delete(ctx, opticalStorageKey(k)); err != nil {
			return err
		}
	}

	if err := r.store.Delete(ctx, key); err != nil {
		return err
	}

	r.forget(key)

	return nil
}

func (r *KVRegistry) hold(key string) {
	r.mu.Lock()
	r.held[key] = struct{}{}
	r.mu.Unlock()
}

func (r *KVRegistry) forget(key string) {
	r.mu.Lock()
	delete(r.held, key)
	r.mu.Unlock()
}

// Held returns the number of pairs this registry claimed and has not released.
func (r *KVRegistry) Held() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.held)
}

// Refresh rewrites every pair claimed through this registry together with its
// optical index records, restarting their expiry. Pairs that are gone from the
// bucket are forgotten. A concurrent writer wins over a refresh.
func (r *KVRegistry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	keys := make([]string, 0, len(r.held))

	for key := range r.held {
		keys = append(keys, key)
	}
	r.mu.Unlock()

	var errs []error

	for _, key := range keys {
		if err := r.refreshPair(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to refresh %s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (r *KVRegistry) refreshPair(ctx context.Context, key string) error {
	data, revision, found, err := r.store.GetEntry(ctx, key)
	if err != nil {
		return err
	}

	if !found {
		r.forget(key)

		return nil
	}

	if err := r.renew(ctx, key, data, revision); err != nil {
		return err
	}

	var entry kvRegistryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return fmt.Errorf("corrupt registry entry %s: %w", key, err)
	}

	for _, k := range entry.Optical {
		index := opticalStorageKey(k)

		value, revision, found, err := r.store.GetEntry(ctx, index)
		if err != nil {
			return err
		}

		if !found {
			continue
		}

		if err := r.renew(ctx, index, value, revision); err != nil {
			return err
		}
	}

	return nil
}

// renew rewrites key unchanged; losing the race to another writer is not an error.
func (r *KVRegistry) renew(ctx context.Context, key string, value []byte, revision uint64) error {
	err := r.store.Update(ctx, key, value, revision)
	if errors.Is(err, kv.ErrRevisionMismatch) {
		return nil
	}

	return err
}

func (r *KVRegistry) load(ctx context.Context, key string) (*kvRegistryEntry, bool, error) {
	data, found, err := r.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	var entry kvRegistryEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("corrupt registry entry %s: %w", key, err)
	}

	return &entry, true, nil
}
