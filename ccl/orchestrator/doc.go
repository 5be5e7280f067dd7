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

// Package orchestrator wires the pure ccl data transforms together into the
// one operation callers need: given a per-module container of cells,
// return a per-module container of measurements.
//
// Run builds the flat Cell SoA (through package parallel once the total
// cell count reaches MinParallelCells), partitions it, dispatches one goroutine per
// partition through golang.org/x/sync/errgroup (bounded concurrency, first
// error wins; partitions give no ordering guarantee relative to each
// other), and demultiplexes the flat measurement buffer back into
// per-module results with github.com/samber/lo.
package orchestrator
