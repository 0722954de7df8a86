// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/hexuzhen-geo/mpm/msolid"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Record is the persisted per-particle state for restart files
type Record struct {
	Id     int       `json:"id"`
	Active bool      `json:"active"`
	X      []float64 `json:"x"`
	Vel    []float64 `json:"vel"`
	Sig    []float64 `json:"sig"`
	Eps    []float64 `json:"eps"`
	Vol    float64   `json:"vol"`
	Mat    string    `json:"mat"`
	CellId int       `json:"cellid"`
}

// Record extracts the persisted state of this particle (solid phase)
func (o *Particle) Record() *Record {
	rec := &Record{
		Id:     o.Id,
		Active: o.Active,
		X:      append([]float64(nil), o.X...),
		Vel:    append([]float64(nil), o.Vel[0]...),
		Sig:    append([]float64(nil), o.Sig[0]...),
		Eps:    append([]float64(nil), o.Eps[0]...),
		Vol:    o.Vol,
		Mat:    o.MatName,
		CellId: o.CellId,
	}
	return rec
}

// SetRecord initialises this particle from a persisted record. The cell
// binding is resolved through the mesh registry; the material model must
// be the one registered under the record's material name.
func (o *Particle) SetRecord(rec *Record, mdl msolid.Model) error {
	o.Id = rec.Id
	o.Active = rec.Active
	copy(o.X, rec.X)
	copy(o.Vel[0], rec.Vel)
	copy(o.Sig[0], rec.Sig)
	copy(o.Eps[0], rec.Eps)
	o.Vol = rec.Vol
	o.MatName = rec.Mat
	o.mdl = mdl
	if rec.CellId >= 0 {
		c := o.msh.CellByID(rec.CellId)
		if c == nil {
			return chk.Err("record of particle %d refers to unknown cell %d", rec.Id, rec.CellId)
		}
		o.CellId = c.Id
		c.AddParticle(o.Id)
	}
	return nil
}

// SaveState writes all particle records to a file using the domain's
// encoder type
func (o *Domain) SaveState(path string) (err error) {
	recs := make([]*Record, len(o.Particles))
	for i, p := range o.Particles {
		recs[i] = p.Record()
	}
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.EncType)
	if err = enc.Encode(recs); err != nil {
		return chk.Err("cannot encode particle records:\n%v", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ReadState replaces the domain's particles with the records read from
// a file, rebinding cells and materials through the registries
func (o *Domain) ReadState(path string) (err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return chk.Err("cannot read state file:\n%v", err)
	}
	var recs []*Record
	dec := GetDecoder(bytes.NewReader(b), o.EncType)
	if err = dec.Decode(&recs); err != nil {
		return chk.Err("cannot decode particle records:\n%v", err)
	}

	// drop current membership entries before rebuilding
	for _, p := range o.Particles {
		p.RemoveCell()
	}

	parts := make([]*Particle, len(recs))
	for i, rec := range recs {
		mdl, ok := o.Models[rec.Mat]
		if !ok {
			return chk.Err("record of particle %d refers to unknown material %q", rec.Id, rec.Mat)
		}
		p := NewParticle(o.Msh, rec.Id, make([]float64, o.Msh.Ndim))
		if err = p.SetRecord(rec, mdl); err != nil {
			return err
		}
		parts[i] = p
	}
	o.Particles = parts
	return nil
}
