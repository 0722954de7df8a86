// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements results reporting: per-step CSV dumps of the
// particle field and aggregate summaries
package out

import (
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hexuzhen-geo/mpm/mpm"
)

// Row is one particle in a per-step CSV dump (solid phase)
type Row struct {
	Id       int     `csv:"id"`
	Step     int     `csv:"step"`
	Active   bool    `csv:"active"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	Vx       float64 `csv:"vx"`
	Vy       float64 `csv:"vy"`
	Vz       float64 `csv:"vz"`
	Pressure float64 `csv:"pressure"`
	Vol      float64 `csv:"vol"`
	CellId   int     `csv:"cellid"`
}

// Rows extracts the CSV rows of all particles at one step
func Rows(dom *mpm.Domain, step int) []*Row {
	rows := make([]*Row, len(dom.Particles))
	for i, p := range dom.Particles {
		r := &Row{
			Id:       p.Id,
			Step:     step,
			Active:   p.Active,
			X:        p.X[0],
			Y:        p.X[1],
			Vx:       p.Vel[0][0],
			Vy:       p.Vel[0][1],
			Pressure: (p.Sig[0][0] + p.Sig[0][1] + p.Sig[0][2]) / 3.0,
			Vol:      p.Vol,
			CellId:   p.CellId,
		}
		if len(p.X) > 2 {
			r.Z = p.X[2]
			r.Vz = p.Vel[0][2]
		}
		rows[i] = r
	}
	return rows
}

// SaveCSV writes rows to a CSV file
func SaveCSV(path string, rows []*Row) error {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("cannot create results file:\n%v", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return chk.Err("cannot write results file %q:\n%v", path, err)
	}
	return nil
}

// ReadCSV reads rows back from a CSV file
func ReadCSV(path string) (rows []*Row, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("cannot open results file:\n%v", err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, chk.Err("cannot parse results file %q:\n%v", path, err)
	}
	return
}

// Summary aggregates the active particles of one step
type Summary struct {
	Step     int     // step index
	Nactive  int     // number of active particles
	MeanP    float64 // mean pressure
	MaxSpeed float64 // largest velocity magnitude
	Xmin     float64 // bounding box of active particles
	Xmax     float64
	Ymin     float64
	Ymax     float64
}

// Summarize computes the summary of one step. With no active particles
// all aggregates are zero.
func Summarize(dom *mpm.Domain, step int) *Summary {
	s := &Summary{Step: step}
	var ps, speeds, xs, ys []float64
	for _, p := range dom.Particles {
		if !p.Active {
			continue
		}
		var v2 float64
		for _, c := range p.Vel[0] {
			v2 += c * c
		}
		ps = append(ps, (p.Sig[0][0]+p.Sig[0][1]+p.Sig[0][2])/3.0)
		speeds = append(speeds, math.Sqrt(v2))
		xs = append(xs, p.X[0])
		ys = append(ys, p.X[1])
	}
	s.Nactive = len(ps)
	if s.Nactive == 0 {
		return s
	}
	s.MeanP = stat.Mean(ps, nil)
	s.MaxSpeed = floats.Max(speeds)
	s.Xmin, s.Xmax = floats.Min(xs), floats.Max(xs)
	s.Ymin, s.Ymax = floats.Min(ys), floats.Max(ys)
	return s
}

// String returns a one-line report of this summary
func (o *Summary) String() string {
	return io.Sf("step %4d: nactive=%d meanp=%g maxspeed=%g bbox=[%g,%g]x[%g,%g]",
		o.Step, o.Nactive, o.MeanP, o.MaxSpeed, o.Xmin, o.Xmax, o.Ymin, o.Ymax)
}
