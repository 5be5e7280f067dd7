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
	"runtime"

	"go.uber.org/zap"

	"github.com/ajroetker/go-sparseccl/ccl/parallel"
)

// MinParallelCells is the minimum total cell count below which the
// SoA-building step runs sequentially rather than through the worker pool;
// below this the dispatch overhead dominates. Demultiplexing is gated by
// module count instead (minParallelModules).
const MinParallelCells = 4096

// Config controls one Run call. Build it with New and the With* options.
type Config struct {
	logger           *zap.Logger
	pool             *parallel.Pool
	maxPartitionJobs int
	validateInput    bool
}

// Option configures a Config.
type Option func(*Config)

// New builds a Config with defaults: a no-op logger, a pool sized to
// GOMAXPROCS, partition dispatch bounded to GOMAXPROCS concurrent
// partitions, and input validation enabled.
func New(opts ...Option) *Config {
	c := &Config{
		logger:           zap.NewNop(),
		maxPartitionJobs: runtime.GOMAXPROCS(0),
		validateInput:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = parallel.New(runtime.GOMAXPROCS(0))
	}
	return c
}

// WithLogger attaches a structured logger. Run logs one Info summary per
// call and Warn/Error around validation and executor failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPool supplies a caller-owned worker pool for the bulk CopyModules and
// FillModuleOutputs steps, instead of letting New create (and this package
// own) one. The caller remains responsible for closing a pool it supplies.
func WithPool(pool *parallel.Pool) Option {
	return func(c *Config) {
		c.pool = pool
	}
}

// WithMaxConcurrentPartitions bounds how many partitions' Fast-SV runs may
// execute concurrently. Defaults to GOMAXPROCS.
func WithMaxConcurrentPartitions(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxPartitionJobs = n
		}
	}
}

// WithValidateInput toggles the O(N) sort-order precondition check
// (ccl.Validate). Enabled by default; disable once a pipeline's input
// source is trusted and the check's cost matters.
func WithValidateInput(validate bool) Option {
	return func(c *Config) {
		c.validateInput = validate
	}
}
