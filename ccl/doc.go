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

// Package ccl implements sparse connected-component labeling over a sorted
// stream of detector pixel activations ("cells"), producing one weighted
// centroid/variance measurement per connected cluster.
//
// The pipeline is: a flat Cell SoA is partitioned into independent,
// boundedly-sized runs (BuildPartitions); each partition's 8-neighborhood
// adjacency is computed (BuildAdjacency); a Fast-SV label propagator
// (package fastsv) converges each partition to a fixed labeling; and
// Aggregate turns the converged labels into measurements via a single-pass
// weighted mean/variance.
//
// Partition-level parallel dispatch and per-module demultiplexing live in
// package orchestrator; this package is the pure, sequential per-partition
// data transform that orchestrator fans out across goroutines.
package ccl

// MaxCellsPerPartition bounds the number of cells a single partition (and
// therefore a single Fast-SV run) may contain. It bounds the length of the
// f/gf scratch arrays that live for the duration of one partition's
// execution.
const MaxCellsPerPartition = 2048

// ThreadsPerBlock is the nominal cooperative work-group size the partitioner
// uses to decide when a partition is large enough to amortize dispatch
// overhead. It does not bound parallelism directly in this goroutine-based
// implementation, but the partitioner's split heuristic is defined in terms
// of it (a gap only splits a run once it is at least 2*ThreadsPerBlock long).
const ThreadsPerBlock = 256

// MaxNeighbors is the maximum number of 8-neighbors a cell can have.
const MaxNeighbors = 8
