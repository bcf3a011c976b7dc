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

// Package cluster answers which controller node masters a device.
package cluster

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/carverauto/lightpath/pkg/kv"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

var (
	ErrNodeIDRequired = errors.New("node id is required")
	ErrNoMaster       = errors.New("device has no master")
)

const masterKeyPrefix = "master."

// Config describes this node and how mastership is decided.
type Config struct {
	NodeID models.NodeID `json:"node_id"`
	// Bucket holds mastership records shared by the cluster. Empty disables
	// the shared records, leaving Static and DefaultMaster.
	Bucket string `json:"bucket,omitempty"`
	// Static pins devices to nodes. Shared records take precedence.
	Static map[models.DeviceID]models.NodeID `json:"static,omitempty"`
	// DefaultMaster masters every device nobody else claims.
	DefaultMaster models.NodeID `json:"default_master,omitempty"`
}

// Validate rejects a config without a node id.
func (c *Config) Validate() error {
	if c.NodeID == "" {
		return ErrNodeIDRequired
	}

	return nil
}

// Mastership resolves device masters from a shared bucket, then from static
// assignments, then from the default master.
type Mastership struct {
	config Config
	store  kv.KVStore
	logger logger.Logger
}

// NewMastership returns a Mastership for config. store may be nil.
func NewMastership(config Config, store kv.KVStore, log logger.Logger) (*Mastership, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Mastership{
		config: config,
		store:  store,
		logger: log.WithComponent("mastership"),
	}, nil
}

func masterKey(device models.DeviceID) string {
	return masterKeyPrefix + base64.RawURLEncoding.EncodeToString([]byte(device))
}

// LocalNode returns the id of this node.
func (m *Mastership) LocalNode() models.NodeID {
	return m.config.NodeID
}

// GetMasterFor returns the node mastering device.
func (m *Mastership) GetMasterFor(ctx context.Context, device models.DeviceID) (models.NodeID, error) {
	if m.store != nil {
		value, found, err := m.store.Get(ctx, masterKey(device))
		if err != nil {
			return "", fmt.Errorf("failed to read master of %s: %w", device, err)
		}

		if found {
			return models.NodeID(value), nil
		}
	}

	if node, ok := m.config.Static[device]; ok {
		return node, nil
	}

	if m.config.DefaultMaster != "" {
		return m.config.DefaultMaster, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNoMaster, device)
}

// Claim records this node as master of every device in devices that has no
// master yet, renews the records it already holds, and returns the devices it
// masters. Statically pinned devices are skipped. With a TTL on the bucket,
// calling Claim more often than the TTL is the node's heartbeat: records of a
// node that stops calling it expire and are taken over by the others.
func (m *Mastership) Claim(ctx context.Context, devices []models.DeviceID) ([]models.DeviceID, error) {
	if m.store == nil {
		return nil, nil
	}

	mastered := make([]models.DeviceID, 0, len(devices))

	for _, device := range devices {
		if _, pinned := m.config.Static[device]; pinned {
			continue
		}

		ok, err := m.claimOrRenew(ctx, masterKey(device))
		if err != nil {
			return mastered, fmt.Errorf("failed to claim %s: %w", device, err)
		}

		if ok {
			mastered = append(mastered, device)
		}
	}

	m.logger.Debug().Int("mastered", len(mastered)).Int("devices", len(devices)).Msg("Claimed device mastership")

	return mastered, nil
}

func (m *Mastership) claimOrRenew(ctx context.Context, key string) (bool, error) {
	self := []byte(m.config.NodeID)

	err := m.store.Create(ctx, key, self)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, kv.ErrKeyExists) {
		return false, err
	}

	value, revision, found, err := m.store.GetEntry(ctx, key)
	if err != nil || !found || models.NodeID(value) != m.config.NodeID {
		// a record that vanished since Create is picked up on the next round
		return false, err
	}

	err = m.store.Update(ctx, key, self, revision)
	if errors.Is(err, kv.ErrRevisionMismatch) {
		return false, nil
	}

	return err == nil, err
}

// Relinquish drops this node's mastership records for devices.
func (m *Mastership) Relinquish(ctx context.Context, devices []models.DeviceID) error {
	if m.store == nil {
		return nil
	}

	var errs []error

	for _, device := range devices {
		key := masterKey(device)

		value, found, err := m.store.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if !found || models.NodeID(value) != m.config.NodeID {
			continue
		}

		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
