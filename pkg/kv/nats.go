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
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// NatsStore is a KVStore backed by a JetStream key/value bucket.
type NatsStore struct {
	kv     jetstream.KeyValue
	bucket string
}

var _ KVStore = (*NatsStore)(nil)

// NewNatsStore opens bucket, creating it when it does not exist yet. ttl
// applies to the whole bucket: a key not written for ttl expires. Zero keeps
// entries forever.
func NewNatsStore(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration) (*NatsStore, error) {
	if bucket == "" {
		return nil, errBucketRequired
	}

	config := jetstream.KeyValueConfig{
		Bucket: bucket,
	}

	if ttl > 0 {
		config.TTL = ttl
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create KV bucket %s: %w", bucket, err)
	}

	return &NatsStore{kv: kv, bucket: bucket}, nil
}

func (n *NatsStore) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	var entry jetstream.KeyValueEntry

	entry, err = n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), true, nil
}

func (n *NatsStore) GetEntry(ctx context.Context, key string) (value []byte, revision uint64, found bool, err error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, 0, false, nil
	}

	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), entry.Revision(), true, nil
}

func (n *NatsStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := n.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Create(ctx context.Context, key string, value []byte) error {
	_, err := n.kv.Create(ctx, key, value)
	if errors.Is(err, jetstream.ErrKeyExists) {
		return ErrKeyExists
	}

	if err != nil {
		return fmt.Errorf("failed to create key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Update(ctx context.Context, key string, value []byte, revision uint64) error {
	// a stale revision fails with the same wrong-last-sequence error as Create
	_, err := n.kv.Update(ctx, key, value, revision)
	if errors.Is(err, jetstream.ErrKeyExists) {
		return ErrRevisionMismatch
	}

	if err != nil {
		return fmt.Errorf("failed to update key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; the NATS connection is owned by the caller.
func (*NatsStore) Close() error {
	return nil
}
