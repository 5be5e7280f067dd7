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

// channel0 is the weighted mean, and variance0 * sum(w) equals the
// weighted sum of squared deviations from that mean. Aggregate is given a
// trivial "everyone belongs to owner 0" labeling directly, independent of
// Fast-SV, to isolate the aggregation math from the propagator.
func TestAggregateWeightedMeanAndVarianceInvariant(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 0, Activation: 3},
		{Channel0: 4, Channel1: 0, Activation: 1},
		{Channel0: 10, Channel1: 0, Activation: 2},
	}
	soa := cellsToSoA(cells)
	f := []int32{0, 0, 0} // all cells owned by cell 0

	ms := Aggregate(soa, Partition{Start: 0, Size: 3}, f)
	if len(ms) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(ms))
	}
	m := ms[0]

	sumW := 3.0 + 1.0 + 2.0
	wantMean := (0*3.0 + 4*1.0 + 10*2.0) / sumW
	if !approxEqual(m.Channel0, wantMean) {
		t.Fatalf("channel0 = %v, want %v", m.Channel0, wantMean)
	}

	wantSumSq := 3.0*(0-wantMean)*(0-wantMean) + 1.0*(4-wantMean)*(4-wantMean) + 2.0*(10-wantMean)*(10-wantMean)
	gotSumSq := m.Variance0 * sumW
	if diff := gotSumSq - wantSumSq; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("variance0*sumW = %v, want %v", gotSumSq, wantSumSq)
	}
}

func TestAggregateOnlyOwnersProduceMeasurements(t *testing.T) {
	cells := []Cell{
		{Channel0: 0, Channel1: 0, Activation: 1},
		{Channel0: 1, Channel1: 0, Activation: 1},
	}
	soa := cellsToSoA(cells)
	f := []int32{0, 0}

	ms := Aggregate(soa, Partition{Start: 0, Size: 2}, f)
	if len(ms) != 1 {
		t.Fatalf("expected exactly 1 measurement (one owner), got %d", len(ms))
	}
	if ms[0].ModuleID != cells[0].ModuleID {
		t.Errorf("measurement module_id should come from the owner cell")
	}
}

func TestAggregateZeroActivationDoesNotProduceNaN(t *testing.T) {
	cells := []Cell{
		{Channel0: 5, Channel1: 5, Activation: 0},
	}
	soa := cellsToSoA(cells)
	f := []int32{0}

	ms := Aggregate(soa, Partition{Start: 0, Size: 1}, f)
	if len(ms) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(ms))
	}
	m := ms[0]
	if m.Channel0 != 0 || m.Variance0 != 0 {
		t.Errorf("zero-activation owner should report zero centroid/variance, got %+v", m)
	}
}
