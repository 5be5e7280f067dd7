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

// Aggregate turns a partition's converged Fast-SV labeling f into one
// Measurement per cluster owner. A cell tid is an owner iff f[tid] == tid;
// since labels only ever propagate toward the minimum index, no cell with
// j < tid can belong to owner tid, so each owner only needs to scan
// [tid, Size).
//
// The mean and variance are accumulated with the Welford-style online
// update, which avoids catastrophic cancellation for dense clusters at
// large absolute channel indices.
func Aggregate(soa *CellSoA, p Partition, f []int32) []Measurement {
	n := p.Size
	base := p.Start

	var out []Measurement

	for tid := 0; tid < n; tid++ {
		if f[tid] != int32(tid) {
			continue
		}

		var sw, mx, my, vx, vy float64

		for j := tid; j < n; j++ {
			if f[j] != int32(tid) {
				continue
			}

			gj := base + j
			w := soa.Activation[gj]
			sw += w

			wf := 0.0
			if sw != 0 {
				wf = w / sw
			}

			c0 := float64(soa.Channel0[gj])
			c1 := float64(soa.Channel1[gj])

			dx := c0 - mx
			dy := c1 - my
			mx += wf * dx
			my += wf * dy
			vx += w * dx * (c0 - mx)
			vy += w * dy * (c1 - my)
		}

		var variance0, variance1 float64
		if sw > 0 {
			variance0 = vx / sw
			variance1 = vy / sw
		}

		out = append(out, Measurement{
			Channel0:  mx,
			Channel1:  my,
			Variance0: variance0,
			Variance1: variance1,
			ModuleID:  soa.ModuleID[base+tid],
		})
	}

	return out
}
