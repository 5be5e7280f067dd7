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

package fastsv

// MaxNeighbors is the maximum number of 8-neighbors a cell can have; kept
// in lockstep with ccl.MaxNeighbors so the two packages don't need to
// import each other just to share one constant.
const MaxNeighbors = 8

// Propagate converges the parent array f and grandparent array gf to a
// fixed point over [0, size), given each cell's neighbor count and indices.
// f and gf must be pre-sized to size; Propagate initializes both to the
// identity (f[i] = gf[i] = i) before running.
//
// On return, f[i] equals the minimum cell index reachable from i through
// the adjacency relation, and f[f[i]] == f[i] for every i: the surviving
// label of a cluster is always its smallest member index.
//
// Propagate returns the number of hook/shortcut/update rounds it took to
// converge (1 for an isolated cell or a partition already at fixpoint).
func Propagate(size int, adjCount []uint8, adjNeighbors [][MaxNeighbors]int32, f, gf []int32) int {
	for i := 0; i < size; i++ {
		f[i] = int32(i)
		gf[i] = int32(i)
	}

	rounds := 0
	for {
		rounds++

		// Phase 1: hook. Attach tid's subtree root to the smallest label
		// discovered in a neighbor's grandparent.
		for tid := 0; tid < size; tid++ {
			for k := 0; k < int(adjCount[tid]); k++ {
				j := adjNeighbors[tid][k]
				q := gf[j]
				if gf[tid] > q {
					root := f[tid]
					f[root] = q
					f[tid] = q
				}
			}
		}
		// Barrier: every phase-1 write must be visible before phase 2 reads.

		// Phase 2: shortcut. Path-compress via the already-known grandparent.
		for tid := 0; tid < size; tid++ {
			if f[tid] > gf[tid] {
				f[tid] = gf[tid]
			}
		}
		// Barrier.

		// Phase 3: update grandparents and detect whether anything changed.
		changed := false
		for tid := 0; tid < size; tid++ {
			v := f[f[tid]]
			if gf[tid] != v {
				gf[tid] = v
				changed = true
			}
		}
		// Barrier with reduction: stop once a full round leaves gf unchanged.

		if !changed {
			return rounds
		}
	}
}
