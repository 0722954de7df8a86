// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"sort"

	"github.com/hexuzhen-geo/mpm/mpm"
)

// Within selects the ids of active particles inside the box
// [min,max] per dimension. min and max must have ndim components.
func Within(dom *mpm.Domain, min, max []float64) (ids []int) {
	for _, p := range dom.Particles {
		if !p.Active {
			continue
		}
		inside := true
		for j := range min {
			if p.X[j] < min[j] || p.X[j] > max[j] {
				inside = false
				break
			}
		}
		if inside {
			ids = append(ids, p.Id)
		}
	}
	return
}

// Along selects the ids of active particles lying on the segment from
// a to b, within distance tol, sorted by position along the segment.
func Along(dom *mpm.Domain, a, b []float64, tol float64) (ids []int) {
	ndim := len(a)
	ab := make([]float64, ndim)
	var abLen float64
	for j := 0; j < ndim; j++ {
		ab[j] = b[j] - a[j]
		abLen += ab[j] * ab[j]
	}
	var dists []float64
	for _, p := range dom.Particles {
		if !p.Active {
			continue
		}
		var t, d2 float64
		for j := 0; j < ndim; j++ {
			t += (p.X[j] - a[j]) * ab[j]
		}
		t /= abLen
		if t < 0 || t > 1 {
			continue
		}
		for j := 0; j < ndim; j++ {
			d := p.X[j] - (a[j] + t*ab[j])
			d2 += d * d
		}
		if d2 <= tol*tol {
			ids = append(ids, p.Id)
			dists = append(dists, t)
		}
	}
	sort.Sort(byDist{ids, dists})
	return
}

// byDist sorts particle ids by their position along the segment
type byDist struct {
	ids   []int
	dists []float64
}

func (o byDist) Len() int           { return len(o.ids) }
func (o byDist) Less(i, j int) bool { return o.dists[i] < o.dists[j] }
func (o byDist) Swap(i, j int) {
	o.ids[i], o.ids[j] = o.ids[j], o.ids[i]
	o.dists[i], o.dists[j] = o.dists[j], o.dists[i]
}
