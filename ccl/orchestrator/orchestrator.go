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

package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-sparseccl/ccl"
	"github.com/ajroetker/go-sparseccl/ccl/fastsv"
)

// minParallelModules is the module count above which demultiplexing is
// fanned out through the worker pool rather than run as one sequential
// loop.
const minParallelModules = 8

// Run accepts a per-module container of cells, builds the Cell SoA and
// partition list, dispatches one goroutine per partition, waits for all of
// them, and demultiplexes the flat measurement buffer back into per-module
// result lists by matching ModuleID. It is the only function in this
// module that spans multiple modules/partitions; everything it calls in
// package ccl is a pure, per-partition data transform.
//
// ctx is checked once, on entry, before any work starts: once partitions
// begin running, they always run to completion. Cancellation
// and timeouts are not supported at the per-partition level.
func Run(ctx context.Context, cfg *Config, modules []ccl.ModuleInput) ([]ccl.ModuleOutput, error) {
	if cfg == nil {
		cfg = New()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	soa := buildSoA(cfg, modules)

	if cfg.validateInput {
		if err := ccl.Validate(soa); err != nil {
			cfg.logger.Warn("ccl: input failed sort-order validation", zap.Error(err))
			return nil, err
		}
	}

	partitions, err := ccl.BuildPartitions(soa)
	if err != nil {
		cfg.logger.Error("ccl: partitioning failed", zap.Error(err))
		return nil, err
	}

	measurements, err := runPartitions(cfg, soa, partitions)
	if err != nil {
		cfg.logger.Error("ccl: partition execution failed", zap.Error(err))
		return nil, err
	}

	outputs := demux(cfg, modules, measurements)

	cfg.logger.Info("ccl run complete",
		zap.Int("cells", soa.Len()),
		zap.Int("partitions", len(partitions)),
		zap.Int("clusters", len(measurements)),
		zap.Int("modules", len(modules)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outputs, nil
}

// buildSoA flattens modules into one CellSoA. For a large enough total cell
// count it copies each module's slice concurrently through the worker
// pool, since every module writes a disjoint offset range; otherwise it
// falls back to the cheaper sequential ccl.BuildCellSoA.
func buildSoA(cfg *Config, modules []ccl.ModuleInput) *ccl.CellSoA {
	total := 0
	offsets := make([]int, len(modules))
	for i, m := range modules {
		offsets[i] = total
		total += len(m.Cells)
	}

	if total < MinParallelCells || cfg.pool == nil {
		return ccl.BuildCellSoA(modules)
	}

	soa := &ccl.CellSoA{
		Channel0:   make([]int32, total),
		Channel1:   make([]int32, total),
		Activation: make([]float64, total),
		Time:       make([]float64, total),
		ModuleID:   make([]uint64, total),
	}

	cfg.pool.CopyModules(modules, offsets, soa)

	return soa
}

// runPartitions dispatches one goroutine per partition through errgroup,
// bounded to cfg.maxPartitionJobs concurrent partitions. A panic inside a
// partition is recovered and turned into an ExecutorFailureError so it
// surfaces through the same channel as any other executor failure rather
// than crashing the whole call.
func runPartitions(cfg *Config, soa *ccl.CellSoA, partitions []ccl.Partition) ([]ccl.Measurement, error) {
	results := make([][]ccl.Measurement, len(partitions))

	g := new(errgroup.Group)
	g.SetLimit(cfg.maxPartitionJobs)

	for i, p := range partitions {
		i, p := i, p
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &ccl.ExecutorFailureError{PartitionIndex: i, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			results[i] = runOnePartition(soa, p)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []ccl.Measurement
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// runOnePartition runs the adjacency reducer, the Fast-SV label
// propagator, and the aggregator over one partition's cells, in that
// order, on a single goroutine (see package fastsv's doc comment for why
// that goroutine doesn't itself fan out over the partition's cells).
func runOnePartition(soa *ccl.CellSoA, p ccl.Partition) []ccl.Measurement {
	adj := ccl.BuildAdjacency(soa, p)

	f := make([]int32, p.Size)
	gf := make([]int32, p.Size)
	fastsv.Propagate(p.Size, adj.Count, adj.Neighbors, f, gf)

	return ccl.Aggregate(soa, p, f)
}

// demux groups the flat measurement buffer back into per-module lists by
// ModuleID in a single O(N) pass (github.com/samber/lo.GroupBy), rather
// than scanning the whole measurement buffer once per module (O(N·M)).
func demux(cfg *Config, modules []ccl.ModuleInput, measurements []ccl.Measurement) []ccl.ModuleOutput {
	grouped := lo.GroupBy(measurements, func(m ccl.Measurement) uint64 {
		return m.ModuleID
	})

	outputs := make([]ccl.ModuleOutput, len(modules))

	if len(modules) >= minParallelModules && cfg.pool != nil {
		cfg.pool.FillModuleOutputs(modules, grouped, outputs)
		return outputs
	}

	for i, m := range modules {
		outputs[i] = ccl.ModuleOutput{
			Header:       m.Header,
			Measurements: grouped[m.Header.ModuleID],
		}
	}
	return outputs
}
