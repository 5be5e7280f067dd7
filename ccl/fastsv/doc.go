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

// Package fastsv implements the three-phase Fast-SV parallel connected
// components algorithm: given an adjacency relation over [0, size), it
// converges a parent array f and grandparent array gf to a fixed point
// where f[i] is the minimum index reachable from i.
//
// The GPU source this algorithm is drawn from runs the three phases
// (hook, shortcut, update) across THREADS_PER_BLOCK cooperating work-items
// separated by group barriers. This package runs the same three phases, in
// the same order, as an in-order scan over all cells in a single goroutine:
// the algorithm's convergence argument rests on phase ordering and label
// monotonicity, not on genuine concurrent execution within a partition,
// and a partition never holds more than ccl.MaxCellsPerPartition cells,
// so the scan is cheap regardless.
package fastsv
