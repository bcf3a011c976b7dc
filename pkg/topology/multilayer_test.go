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

package topology_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/lightpath/pkg/models"
	"github.com/carverauto/lightpath/pkg/optical"
	"github.com/carverauto/lightpath/pkg/topology"
)

func TestMultiLayerSnapshotYieldsCrossConnectPair(t *testing.T) {
	s := topology.NewStore(nil)
	require.NoError(t, s.LoadFile(filepath.Join("testdata", "multilayer.yaml")))

	paths, err := s.GetPaths(context.Background(), "P1", "P2", optical.OpticalLinkWeight{})
	require.NoError(t, err)
	require.Len(t, paths, 1)

	assert.InDelta(t, 4000.0, paths[0].Cost, 1e-9)
	assert.Equal(t, []models.ConnectPoint{
		models.NewConnectPoint("O1", 10),
		models.NewConnectPoint("O3", 31),
	}, optical.CrossConnectPoints(paths[0]))
}
