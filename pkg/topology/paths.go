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

package topology

import (
	"container/heap"
	"context"
	"math"

	"github.com/carverauto/lightpath/pkg/models"
)

const costEpsilon = 1e-9

// queueItem is a device waiting to be settled by the search.
type queueItem struct {
	device models.DeviceID
	cost   float64
}

type costQueue []queueItem

func (q costQueue) Len() int           { return len(q) }
func (q costQueue) Less(i, j int) bool { return q[i].cost < q[j].cost }
func (q costQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *costQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *costQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]

	return item
}

// GetPaths returns every lowest cost path from src to dst, up to MaxPaths.
// Links the weight function scores negative are never traversed. An
// unreachable dst yields no paths and no error.
func (s *Store) GetPaths(ctx context.Context, src, dst models.DeviceID, weight models.LinkWeight) ([]models.Path, error) {
	g := s.current()

	if _, ok := g.devices[src]; !ok {
		return nil, nil
	}

	if _, ok := g.devices[dst]; !ok || src == dst {
		return nil, nil
	}

	dist := map[models.DeviceID]float64{src: 0}
	// preds holds, per device, every link that reaches it at its lowest cost.
	preds := make(map[models.DeviceID][]models.Link)
	settled := make(map[models.DeviceID]bool)

	queue := &costQueue{{device: src}}

	for queue.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := heap.Pop(queue).(queueItem)
		if settled[item.device] {
			continue
		}

		settled[item.device] = true

		if item.device == dst {
			continue
		}

		for _, link := range g.egress[item.device] {
			w := weight.Weight(models.TopologyEdge{Link: link})
			if w < 0 || settled[link.Dst.DeviceID] {
				continue
			}

			cost := item.cost + w
			known, seen := dist[link.Dst.DeviceID]

			switch {
			case !seen || cost < known-costEpsilon:
				dist[link.Dst.DeviceID] = cost
				preds[link.Dst.DeviceID] = []models.Link{link}
				heap.Push(queue, queueItem{device: link.Dst.DeviceID, cost: cost})
			case math.Abs(cost-known) <= costEpsilon:
				preds[link.Dst.DeviceID] = append(preds[link.Dst.DeviceID], link)
			}
		}
	}

	cost, ok := dist[dst]
	if !ok {
		return nil, nil
	}

	limit := s.MaxPaths
	if limit <= 0 {
		limit = defaultMaxPaths
	}

	var (
		paths []models.Path
		walk  func(device models.DeviceID, suffix []models.Link)
	)

	// Walk predecessors back from dst; suffix is the path tail in reverse.
	walk = func(device models.DeviceID, suffix []models.Link) {
		if len(paths) >= limit {
			return
		}

		if device == src {
			links := make([]models.Link, len(suffix))
			for i, link := range suffix {
				links[len(suffix)-1-i] = link
			}

			paths = append(paths, models.NewPath(links, cost))

			return
		}

		for _, link := range preds[device] {
			walk(link.Src.DeviceID, append(suffix, link))
		}
	}

	walk(dst, nil)

	return paths, nil
}
