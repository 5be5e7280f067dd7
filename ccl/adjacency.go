// Copyright 2025 go-sparseccl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ccl

// Adjacency holds, for every cell index tid in [0, Size) of one partition,
// the count of its 8-neighbors within the same partition and their
// (partition-local) indices. Count[tid] is always <= MaxNeighbors.
type Adjacency struct {
	Count     []uint8
	Neighbors [][MaxNeighbors]int32
}

// isAdjacent reports whether two cells in the same module are 8-adjacent:
// differing by at most one on each axis. It returns true for equal
// coordinates; BuildAdjacency never passes a cell together with itself.
func isAdjacent(c0a, c1a, c0b, c1b int32) bool {
	d0 := c0a - c0b
	d1 := c1a - c1b
	return d0*d0 <= 1 && d1*d1 <= 1
}

// BuildAdjacency computes the 8-neighborhood adjacency for every cell in
// partition p of soa. It exploits the Channel1 sort order within the
// partition: a backward scan from tid stops as soon as a cell's Channel1 is
// more than one below tid's, or the module changes; a forward scan stops
// symmetrically. Every remaining candidate in each direction is tested with
// isAdjacent.
func BuildAdjacency(soa *CellSoA, p Partition) *Adjacency {
	n := p.Size
	base := p.Start

	adj := &Adjacency{
		Count:     make([]uint8, n),
		Neighbors: make([][MaxNeighbors]int32, n),
	}

	for tid := 0; tid < n; tid++ {
		gi := base + tid
		c0 := soa.Channel0[gi]
		c1 := soa.Channel1[gi]
		mod := soa.ModuleID[gi]
		count := 0

		for j := tid - 1; j >= 0; j-- {
			gj := base + j
			if soa.ModuleID[gj] != mod || soa.Channel1[gj]+1 < c1 {
				break
			}
			if isAdjacent(c0, c1, soa.Channel0[gj], soa.Channel1[gj]) {
				adj.Neighbors[tid][count] = int32(j)
				count++
			}
		}

		for j := tid + 1; j < n; j++ {
			gj := base + j
			if soa.ModuleID[gj] != mod || soa.Channel1[gj] > c1+1 {
				break
			}
			if isAdjacent(c0, c1, soa.Channel0[gj], soa.Channel1[gj]) {
				adj.Neighbors[tid][count] = int32(j)
				count++
			}
		}

		adj.Count[tid] = uint8(count)
	}

	return adj
}
