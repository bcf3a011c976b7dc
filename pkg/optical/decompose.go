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
	"fmt"

	"github.com/carverauto/lightpath/pkg/models"
)

// IsCrossConnectLink reports whether link is a cross-connect between the
// packet and optical layers. An optical link without the optical.type
// annotation violates the topology contract and panics.
func IsCrossConnectLink(link models.Link) bool {
	if link.Type != models.LinkTypeOptical {
		return false
	}

	opticalType, ok := link.Annotations[models.AnnotationOpticalType]
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrMissingOpticalType, link))
	}

	return opticalType == models.OpticalTypeCrossConnect
}

// CrossConnectPoints scans a multi-layer path for the sections that cross
// into the optical layer. Each section contributes its ingress point (the
// destination of the entering cross-connect link) followed by its egress point
// (the source of the leaving cross-connect link), so the result is always of
// even length when the path is well formed.
func CrossConnectPoints(path models.Path) []models.ConnectPoint {
	var (
		scanning bool
		points   []models.ConnectPoint
	)

	for _, link := range path.Links {
		if !IsCrossConnectLink(link) {
			continue
		}

		if scanning {
			points = append(points, mustConnectPoint(link.Src, link))
			scanning = false
		} else {
			points = append(points, mustConnectPoint(link.Dst, link))
			scanning = true
		}
	}

	return points
}

func mustConnectPoint(cp models.ConnectPoint, link models.Link) models.ConnectPoint {
	if cp.IsZero() {
		panic(fmt.Errorf("%w: link %s has an empty endpoint", ErrUnresolvedEndpoint, link))
	}

	return cp
}

func checkPairs(points []models.ConnectPoint) {
	if len(points)%2 != 0 {
		panic(fmt.Errorf("%w: got %d", ErrOddCrossConnectPoints, len(points)))
	}
}
