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

import "testing"

func cellsToSoA(cells []Cell) *CellSoA {
	return BuildCellSoA([]ModuleInput{{Header: ModuleHeader{}, Cells: cells}})
}

func TestBuildPartitionsEmpty(t *testing.T) {
	soa := &CellSoA{}
	parts, err := BuildPartitions(soa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts != nil {
		t.Fatalf("expected no partitions, got %v", parts)
	}
}

func TestBuildPartitionsSingleRun(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 0, Activation: 1},
		{Channel0: 1, Channel1: 0, Activation: 1},
		{Channel0: 2, Channel1: 0, Activation: 1},
	}
	soa := cellsToSoA(cells)

	parts, err := BuildPartitions(soa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 partition, got %d: %v", len(parts), parts)
	}
	if parts[0].Start != 0 || parts[0].Size != 3 {
		t.Fatalf("unexpected partition: %+v", parts[0])
	}
}

func TestBuildPartitionsModuleBoundaryAlwaysSplits(t *testing.T) {
	modules := []ModuleInput{
		{Header: ModuleHeader{ModuleID: 1}, Cells: []Cell{{Channel0: 0, Channel1: 0, Activation: 1}}},
		{Header: ModuleHeader{ModuleID: 2}, Cells: []Cell{{Channel0: 0, Channel1: 0, Activation: 1}}},
	}
	soa := BuildCellSoA(modules)

	parts, err := BuildPartitions(soa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions (one per module), got %d: %v", len(parts), parts)
	}
}

// A channel1 gap is only a valid split point once the run-so-far has
// reached 2*ThreadsPerBlock cells; a gap in a smaller run must NOT force a split.
func TestBuildPartitionsGapInSmallRunDoesNotSplit(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 0, Activation: 1},
		{Channel0: 0, Channel1: 5, Activation: 1}, // big channel1 jump, but partition is tiny
	}
	soa := cellsToSoA(cells)

	parts, err := BuildPartitions(soa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 partition (gap below size threshold), got %d: %v", len(parts), parts)
	}
}

// A channel1 gap after at least 2*ThreadsPerBlock cells splits the run.
func TestBuildPartitionsGapInLargeRunSplits(t *testing.T) {
	var cells []Cell
	for i := 0; i < 2*ThreadsPerBlock; i++ {
		cells = append(cells, Cell{Channel0: int32(i), Channel1: 0, Activation: 1})
	}
	cells = append(cells, Cell{Channel0: 0, Channel1: 5, Activation: 1})
	soa := cellsToSoA(cells)

	parts, err := BuildPartitions(soa)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d: %v", len(parts), parts)
	}
	total := 0
	for _, p := range parts {
		total += p.Size
	}
	if total != len(cells) {
		t.Fatalf("partitions must cover every cell exactly once: total %d, want %d", total, len(cells))
	}
}

func TestBuildPartitionsTooLarge(t *testing.T) {
	var cells []Cell
	for i := 0; i < MaxCellsPerPartition+1; i++ {
		cells = append(cells, Cell{Channel0: int32(i), Channel1: 0, Activation: 1})
	}
	soa := cellsToSoA(cells)

	_, err := BuildPartitions(soa)
	if err == nil {
		t.Fatal("expected PartitionTooLargeError, got nil")
	}
	if _, ok := err.(*PartitionTooLargeError); !ok {
		t.Fatalf("expected *PartitionTooLargeError, got %T: %v", err, err)
	}
}

func TestValidateDetectsUnsortedChannel1(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 2, Activation: 1},
		{Channel0: 0, Channel1: 1, Activation: 1},
	}
	soa := cellsToSoA(cells)

	err := Validate(soa)
	if err == nil {
		t.Fatal("expected InputNotSortedError, got nil")
	}
	if _, ok := err.(*InputNotSortedError); !ok {
		t.Fatalf("expected *InputNotSortedError, got %T", err)
	}
}

func TestValidateDetectsUnsortedChannel0Tie(t *testing.T) {
	cells := []Cell{
		{Channel0: 1, Channel1: 1, Activation: 1},
		{Channel0: 0, Channel1: 1, Activation: 1},
	}
	soa := cellsToSoA(cells)

	if err := Validate(soa); err == nil {
		t.Fatal("expected InputNotSortedError for channel0 tie-break violation, got nil")
	}
}

func TestValidateAcceptsSortedInput(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 0, Activation: 1},
		{Channel0: 1, Channel1: 0, Activation: 1},
		{Channel0: 0, Channel1: 1, Activation: 1},
	}
	soa := cellsToSoA(cells)

	if err := Validate(soa); err != nil {
		t.Fatalf("unexpected error for valid input: %v", err)
	}
}

// Module changes reset the sort-order check: a new module may restart at
// any channel1/channel0.
func TestValidateResetsAcrossModules(t *testing.T) {
	modules := []ModuleInput{
		{Header: ModuleHeader{ModuleID: 1}, Cells: []Cell{{Channel0: 5, Channel1: 5, Activation: 1}}},
		{Header: ModuleHeader{ModuleID: 2}, Cells: []Cell{{Channel0: 0, Channel1: 0, Activation: 1}}},
	}
	soa := BuildCellSoA(modules)

	if err := Validate(soa); err != nil {
		t.Fatalf("unexpected error across module boundary: %v", err)
	}
}
