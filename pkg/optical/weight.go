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

import "github.com/carverauto/lightpath/pkg/models"

const (
	weightExcluded = -1
	weightOptical  = 1000
	weightPacket   = 1
)

// OpticalLinkWeight prefers re-use of packet links over consuming optical
// transport capacity. Any all-packet route beats a route with a single
// optical hop; inactive links are excluded outright.
type OpticalLinkWeight struct{}

var _ models.LinkWeight = OpticalLinkWeight{}

func (OpticalLinkWeight) Weight(edge models.TopologyEdge) float64 {
	if !edge.Link.IsActive() {
		return weightExcluded
	}

	if edge.Link.Type == models.LinkTypeOptical {
		return weightOptical
	}

	return weightPacket
}
