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

// Package topology keeps an in-memory inventory of devices, ports, hosts and
// links loaded from a snapshot file, and computes paths over it.
package topology

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

var (
	ErrDuplicateDevice = errors.New("duplicate device")
	ErrUnknownDevice   = errors.New("link or host references unknown device")
)

// DeviceRecord is a device and its ports as stored in a snapshot.
type DeviceRecord struct {
	models.Device

	Ports []models.Port `json:"ports,omitempty"`
}

// Snapshot is the serialized form of a topology.
type Snapshot struct {
	Devices []DeviceRecord `json:"devices"`
	Hosts   []models.Host  `json:"hosts,omitempty"`
	Links   []models.Link  `json:"links"`
}

type deviceEntry struct {
	device models.Device
	ports  map[models.PortNumber]models.Port
}

type graph struct {
	devices map[models.DeviceID]*deviceEntry
	hosts   map[models.HostID]models.Host
	egress  map[models.DeviceID][]models.Link
}

// Store is a topology snapshot that can be swapped atomically.
type Store struct {
	mu     sync.RWMutex
	graph  *graph
	logger logger.Logger

	// MaxPaths bounds the number of equal-cost paths GetPaths returns.
	MaxPaths int
}

const defaultMaxPaths = 32

// NewStore returns an empty store.
func NewStore(log logger.Logger) *Store {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Store{
		graph:    &graph{},
		logger:   log.WithComponent("topology"),
		MaxPaths: defaultMaxPaths,
	}
}

// LoadFile reads a JSON or YAML snapshot from path into the store.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read topology '%s': %w", path, err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to parse topology '%s': %w", path, err)
	}

	return s.Load(&snapshot)
}

// Load replaces the store contents with snapshot.
func (s *Store) Load(snapshot *Snapshot) error {
	g := &graph{
		devices: make(map[models.DeviceID]*deviceEntry, len(snapshot.Devices)),
		hosts:   make(map[models.HostID]models.Host, len(snapshot.Hosts)),
		egress:  make(map[models.DeviceID][]models.Link),
	}

	for _, record := range snapshot.Devices {
		if _, ok := g.devices[record.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDevice, record.ID)
		}

		entry := &deviceEntry{device: record.Device, ports: make(map[models.PortNumber]models.Port, len(record.Ports))}
		for _, port := range record.Ports {
			entry.ports[port.Number] = port
		}

		g.devices[record.ID] = entry
	}

	for _, host := range snapshot.Hosts {
		if _, ok := g.devices[host.Location.DeviceID]; !ok {
			return fmt.Errorf("%w: host %s at %s", ErrUnknownDevice, host.ID, host.Location)
		}

		g.hosts[host.ID] = host
	}

	for _, link := range snapshot.Links {
		for _, end := range []models.ConnectPoint{link.Src, link.Dst} {
			if _, ok := g.devices[end.DeviceID]; !ok {
				return fmt.Errorf("%w: link %s", ErrUnknownDevice, link)
			}
		}

		if link.State == "" {
			link.State = models.LinkStateActive
		}

		g.egress[link.Src.DeviceID] = append(g.egress[link.Src.DeviceID], link)
	}

	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	s.logger.Info().Int("devices", len(g.devices)).Int("hosts", len(g.hosts)).
		Int("links", len(snapshot.Links)).Msg("Loaded topology")

	return nil
}

func (s *Store) current() *graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.graph
}

// Devices returns the ids of every known device in sorted order.
func (s *Store) Devices() []models.DeviceID {
	g := s.current()

	ids := make([]models.DeviceID, 0, len(g.devices))
	for id := range g.devices {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *Store) GetDevice(_ context.Context, id models.DeviceID) (*models.Device, error) {
	entry, ok := s.current().devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, id)
	}

	device := entry.device

	return &device, nil
}

func (s *Store) GetPort(_ context.Context, id models.DeviceID, number models.PortNumber) (*models.Port, error) {
	entry, ok := s.current().devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrDeviceNotFound, id)
	}

	port, ok := entry.ports[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrPortNotFound, models.NewConnectPoint(id, number))
	}

	return &port, nil
}

func (s *Store) GetHost(_ context.Context, id models.HostID) (*models.Host, error) {
	host, ok := s.current().hosts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrHostNotFound, id)
	}

	return &host, nil
}
