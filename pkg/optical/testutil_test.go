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
	"github.com/carverauto/lightpath/pkg/models"
)

func cp(device string, port models.PortNumber) models.ConnectPoint {
	return models.NewConnectPoint(models.DeviceID(device), port)
}

func packetLink(src, dst models.ConnectPoint) models.Link {
	return models.Link{Src: src, Dst: dst, Type: models.LinkTypeDirect, State: models.LinkStateActive}
}

func opticalLink(src, dst models.ConnectPoint) models.Link {
	return models.Link{
		Src:         src,
		Dst:         dst,
		Type:        models.LinkTypeOptical,
		State:       models.LinkStateActive,
		Annotations: models.Annotations{models.AnnotationOpticalType: "och"},
	}
}

func crossConnectLink(src, dst models.ConnectPoint) models.Link {
	l := opticalLink(src, dst)
	l.Annotations = models.Annotations{models.AnnotationOpticalType: models.OpticalTypeCrossConnect}

	return l
}

// multiLayerPath is P1 -xc- O1 -och- O2 -och- O3 -xc- P2.
func multiLayerPath() models.Path {
	return models.NewPath([]models.Link{
		crossConnectLink(cp("P1", 9), cp("O1", 10)),
		opticalLink(cp("O1", 11), cp("O2", 20)),
		opticalLink(cp("O2", 21), cp("O3", 30)),
		crossConnectLink(cp("O3", 31), cp("P2", 9)),
	}, 3002)
}
