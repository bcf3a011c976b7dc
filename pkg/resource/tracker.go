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

// Package resource tracks port reservations and link bandwidth allocations
// held by intents.
package resource

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/lightpath/pkg/kv"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

var ErrPortReserved = errors.New("port is already reserved")

const (
	portKeyPrefix        = "port."
	intentPortsKeyPrefix = "intent-ports."
	allocationKeyPrefix  = "alloc."
)

// Tracker records resources per intent in a key/value bucket shared with the
// intent manager.
type Tracker struct {
	store  kv.KVStore
	logger logger.Logger
}

func NewTracker(store kv.KVStore, log logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Tracker{store: store, logger: log.WithComponent("resources")}
}

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func portKey(cp models.ConnectPoint) string {
	return portKeyPrefix + encode(cp.String())
}

func intentPortsKey(id models.IntentID) string {
	return intentPortsKeyPrefix + encode(string(id))
}

func allocationKey(id models.IntentID) string {
	return allocationKeyPrefix + encode(string(id))
}

// ReservePorts reserves every port in ports for id. Either all ports are
// reserved or none are.
func (t *Tracker) ReservePorts(ctx context.Context, id models.IntentID, ports []models.ConnectPoint) error {
	reserved := make([]models.ConnectPoint, 0, len(ports))

	for _, port := range ports {
		err := t.store.Create(ctx, portKey(port), []byte(id))
		if err == nil {
			reserved = append(reserved, port)

			continue
		}

		for _, r := range reserved {
			if delErr := t.store.Delete(ctx, portKey(r)); delErr != nil {
				t.logger.Error().Err(delErr).Str("port", r.String()).Msg("Failed to roll back port reservation")
			}
		}

		if errors.Is(err, kv.ErrKeyExists) {
			return fmt.Errorf("%w: %s", ErrPortReserved, port)
		}

		return err
	}

	existing, err := t.reservedPorts(ctx, id)
	if err != nil {
		return err
	}

	return t.putJSON(ctx, intentPortsKey(id), append(existing, reserved...))
}

// PortOwner returns the intent holding port.
func (t *Tracker) PortOwner(ctx context.Context, port models.ConnectPoint) (models.IntentID, bool, error) {
	value, found, err := t.store.Get(ctx, portKey(port))
	if err != nil || !found {
		return "", false, err
	}

	return models.IntentID(value), true, nil
}

// ReleasePorts releases every port reserved for id.
func (t *Tracker) ReleasePorts(ctx context.Context, id models.IntentID) error {
	ports, err := t.reservedPorts(ctx, id)
	if err != nil {
		return err
	}

	var errs []error

	for _, port := range ports {
		owner, found, err := t.PortOwner(ctx, port)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		if !found || owner != id {
			continue
		}

		if err := t.store.Delete(ctx, portKey(port)); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	t.logger.Debug().Str("intent_id", string(id)).Int("ports", len(ports)).Msg("Released ports")

	return t.store.Delete(ctx, intentPortsKey(id))
}

// Allocate records link bandwidth allocations.
func (t *Tracker) Allocate(ctx context.Context, allocations []models.LinkAllocation) error {
	for id, group := range groupByIntent(allocations) {
		existing, err := t.GetAllocations(ctx, id)
		if err != nil {
			return err
		}

		if err := t.putJSON(ctx, allocationKey(id), append(existing, group...)); err != nil {
			return err
		}
	}

	return nil
}

// GetAllocations returns the link allocations held by id.
func (t *Tracker) GetAllocations(ctx context.Context, id models.IntentID) ([]models.LinkAllocation, error) {
	var allocations []models.LinkAllocation
	if _, err := t.getJSON(ctx, allocationKey(id), &allocations); err != nil {
		return nil, err
	}

	return allocations, nil
}

// ReleaseResources drops the given allocations. Allocations not on record
// are ignored.
func (t *Tracker) ReleaseResources(ctx context.Context, allocations []models.LinkAllocation) error {
	for id, release := range groupByIntent(allocations) {
		existing, err := t.GetAllocations(ctx, id)
		if err != nil {
			return err
		}

		remaining := existing[:0]

		for _, a := range existing {
			if !containsAllocation(release, a) {
				remaining = append(remaining, a)
			}
		}

		if len(remaining) == 0 {
			err = t.store.Delete(ctx, allocationKey(id))
		} else {
			err = t.putJSON(ctx, allocationKey(id), remaining)
		}

		if err != nil {
			return err
		}

		t.logger.Debug().Str("intent_id", string(id)).Int("released", len(existing)-len(remaining)).
			Msg("Released link allocations")
	}

	return nil
}

func (t *Tracker) reservedPorts(ctx context.Context, id models.IntentID) ([]models.ConnectPoint, error) {
	var ports []models.ConnectPoint
	if _, err := t.getJSON(ctx, intentPortsKey(id), &ports); err != nil {
		return nil, err
	}

	return ports, nil
}

func (t *Tracker) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	value, found, err := t.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(value, dst); err != nil {
		return false, fmt.Errorf("corrupt resource record %s: %w", key, err)
	}

	return true, nil
}

func (t *Tracker) putJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return t.store.Put(ctx, key, data)
}

func groupByIntent(allocations []models.LinkAllocation) map[models.IntentID][]models.LinkAllocation {
	groups := make(map[models.IntentID][]models.LinkAllocation)
	for _, a := range allocations {
		groups[a.IntentID] = append(groups[a.IntentID], a)
	}

	return groups
}

func containsAllocation(list []models.LinkAllocation, a models.LinkAllocation) bool {
	for _, b := range list {
		if b.Link.Src == a.Link.Src && b.Link.Dst == a.Link.Dst && b.Bandwidth == a.Bandwidth {
			return true
		}
	}

	return false
}
