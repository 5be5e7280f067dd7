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

// Cell is one pixel activation in a detector module. Time is passed through
// untouched by every stage of this package; it exists only so callers can
// round-trip it if their downstream consumers need it.
type Cell struct {
	Channel0   int32
	Channel1   int32
	Activation float64
	Time       float64
	ModuleID   uint64
}

// CellSoA is the flat, column-major buffer of all cells across every module
// in one call, built once on the host and read-only for the rest of the
// pipeline. Cells must already be grouped by ModuleID and, within a module,
// sorted by Channel1 ascending with ties broken by Channel0 ascending; this
// is a precondition of the partitioner and adjacency reducer, not something
// this type enforces on construction (see Validate).
type CellSoA struct {
	Channel0   []int32
	Channel1   []int32
	Activation []float64
	Time       []float64
	ModuleID   []uint64
}

// Len returns the number of cells in the buffer.
func (s *CellSoA) Len() int {
	return len(s.Channel0)
}

// Partition identifies a contiguous, independently-clusterable run of cells
// in a CellSoA: the cells in [Start, Start+Size) will be processed by one
// Fast-SV run without any cluster crossing into a neighboring partition.
type Partition struct {
	Start int
	Size  int
}

// Measurement is the weighted centroid and weighted variance of one cluster.
type Measurement struct {
	Channel0  float64
	Channel1  float64
	Variance0 float64
	Variance1 float64
	ModuleID  uint64
}

// ModuleHeader identifies a detector module and carries any geometry
// pass-through data a caller attaches; the core never inspects Geometry.
type ModuleHeader struct {
	ModuleID uint64
	Geometry any
}

// ModuleInput is one module's sorted cell list, as the caller must provide
// it (see CellSoA's sort-order precondition).
type ModuleInput struct {
	Header ModuleHeader
	Cells  []Cell
}

// ModuleOutput is one module's unordered measurement list.
type ModuleOutput struct {
	Header       ModuleHeader
	Measurements []Measurement
}

// BuildCellSoA flattens a list of per-module cell lists into a single Cell
// SoA, preserving the caller's module order and each module's internal cell
// order. It does not re-sort anything: the sort-order precondition is the
// caller's responsibility (see Validate).
func BuildCellSoA(modules []ModuleInput) *CellSoA {
	n := 0
	for _, m := range modules {
		n += len(m.Cells)
	}

	soa := &CellSoA{
		Channel0:   make([]int32, 0, n),
		Channel1:   make([]int32, 0, n),
		Activation: make([]float64, 0, n),
		Time:       make([]float64, 0, n),
		ModuleID:   make([]uint64, 0, n),
	}

	for _, m := range modules {
		for _, c := range m.Cells {
			soa.Channel0 = append(soa.Channel0, c.Channel0)
			soa.Channel1 = append(soa.Channel1, c.Channel1)
			soa.Activation = append(soa.Activation, c.Activation)
			soa.Time = append(soa.Time, c.Time)
			soa.ModuleID = append(soa.ModuleID, m.Header.ModuleID)
		}
	}

	return soa
}
