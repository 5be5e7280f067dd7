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

// Package parallel provides a persistent, reusable worker pool for the two
// embarrassingly-parallel bulk steps around the CCL pipeline: copying many
// modules' cells into one flat Cell SoA, and filling per-module output
// slots from the demultiplexed measurement groups. A Pool is created once
// and reused across many orchestrator.Run calls, eliminating per-call
// goroutine spawn overhead.
//
// Partition-level dispatch itself (the "one work-group per partition" step,
// where each unit of work can fail independently) does not use this pool;
// it uses golang.org/x/sync/errgroup instead, so a partition's error can
// propagate directly. See package orchestrator.
//
// Usage:
//
//	pool := parallel.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.CopyModules(modules, offsets, soa)
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-sparseccl/ccl"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work.
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// CopyModules copies each module's cells into soa at its corresponding
// offset in offsets, one module per unit of work. Modules are distributed
// across workers with atomic work-stealing rather than a fixed contiguous
// split, since detector modules can carry wildly different cell counts and
// a fixed split would leave fast workers idle while a slow one finishes a
// heavy module. Every module writes a disjoint range of soa's slices, so
// no synchronization is needed between workers.
func (p *Pool) CopyModules(modules []ccl.ModuleInput, offsets []int, soa *ccl.CellSoA) {
	p.forAtomic(len(modules), func(i int) {
		m := modules[i]
		off := offsets[i]
		for j, c := range m.Cells {
			soa.Channel0[off+j] = c.Channel0
			soa.Channel1[off+j] = c.Channel1
			soa.Activation[off+j] = c.Activation
			soa.Time[off+j] = c.Time
			soa.ModuleID[off+j] = m.Header.ModuleID
		}
	})
}

// FillModuleOutputs fills outputs[i] for every module index i from grouped,
// the per-ModuleID measurement groups produced by demultiplexing. Unlike
// CopyModules, filling one output slot costs the same regardless of how
// many measurements it holds, so modules are split into contiguous ranges
// across workers rather than work-stolen one at a time.
func (p *Pool) FillModuleOutputs(modules []ccl.ModuleInput, grouped map[uint64][]ccl.Measurement, outputs []ccl.ModuleOutput) {
	p.forRange(len(modules), func(start, end int) {
		for i := start; i < end; i++ {
			h := modules[i].Header
			outputs[i] = ccl.ModuleOutput{
				Header:       h,
				Measurements: grouped[h.ModuleID],
			}
		}
	})
}

// forRange executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices. Blocks until all
// work completes.
func (p *Pool) forRange(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}

		p.workC <- workItem{
			fn: func() {
				fn(start, end)
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}

// forAtomic executes fn for each index in [0, n) using atomic work
// stealing, for better load balancing when per-item cost varies. Blocks
// until all work completes.
func (p *Pool) forAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(idx)
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
