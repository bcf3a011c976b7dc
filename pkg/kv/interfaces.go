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

//go:generate mockgen -destination=mock_kv.go -package=kv github.com/carverauto/lightpath/pkg/kv KVStore

// Package kv wraps the NATS JetStream key/value buckets the provisioner keeps
// shared cluster state in.
package kv

import (
	"context"
)

// KVStore is a key/value bucket.
type KVStore interface {
	// Get retrieves the value stored under key. found is false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// GetEntry is Get that also returns the revision of the value, for Update.
	GetEntry(ctx context.Context, key string) (value []byte, revision uint64, found bool, err error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Create stores value under key only if the key does not exist yet.
	// It returns ErrKeyExists otherwise.
	Create(ctx context.Context, key string, value []byte) error

	// Update stores value under key only if key is still at revision. It
	// returns ErrRevisionMismatch otherwise. A successful Update restarts the
	// bucket TTL of the key.
	Update(ctx context.Context, key string, value []byte, revision uint64) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
