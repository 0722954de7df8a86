// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"

	"github.com/hexuzhen-geo/mpm/inp"
	"github.com/hexuzhen-geo/mpm/mpm"
	"github.com/hexuzhen-geo/mpm/out"
)

var (
	verbose  bool
	nproc    int
	nsteps   int
	dirout   string
	csvEvery int
)

var rootCmd = &cobra.Command{
	Use:   "mpm",
	Short: "material point method simulator for viscoplastic flows",
}

var runCmd = &cobra.Command{
	Use:   "run simfile",
	Short: "run a simulation from a .sim (JSON) or .yaml input file",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", true, "show per-step summaries")
	runCmd.Flags().IntVarP(&nproc, "nproc", "p", 0, "override number of workers (0: use input file)")
	runCmd.Flags().IntVarP(&nsteps, "nsteps", "n", 0, "override number of steps (0: use input file)")
	runCmd.Flags().StringVarP(&dirout, "dirout", "o", "", "override output directory")
	runCmd.Flags().IntVar(&csvEvery, "csv-every", 0, "dump a particle CSV every n steps (0: final step only)")
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) error {

	// input
	sim, err := inp.ReadSim(args[0])
	if err != nil {
		return err
	}
	if nproc > 0 {
		sim.Data.Nproc = nproc
	}
	if nsteps > 0 {
		sim.Data.Nsteps = nsteps
	}
	if dirout != "" {
		sim.Data.DirOut = dirout
	}
	if sim.Data.DirOut == "" {
		sim.Data.DirOut = "results"
	}
	if err := os.MkdirAll(sim.Data.DirOut, 0755); err != nil {
		return err
	}

	if verbose {
		io.Pf("%v\n", io.ArgsTable(
			"simulation file", "simfile", args[0],
			"description", "desc", sim.Data.Desc,
			"number of steps", "nsteps", sim.Data.Nsteps,
			"time step", "dt", sim.Data.Dt,
			"number of workers", "nproc", sim.Data.Nproc,
			"output directory", "dirout", sim.Data.DirOut,
		))
	}

	// domain
	dom, err := mpm.NewDomain(sim)
	if err != nil {
		return err
	}
	if dom.NumOutside > 0 {
		io.Pfyel("warning: %d seeds lie outside the grid and were deactivated\n", dom.NumOutside)
	}

	// run
	for step := 0; step < sim.Data.Nsteps; step++ {
		rep := dom.Step(step)
		for _, f := range rep.Failures {
			io.Pfred("step %d: particle %d failed at %s stage: %v\n", step, f.Pid, f.Stage, f.Err)
		}
		if verbose {
			io.Pf("%v\n", out.Summarize(dom, step))
		}
		last := step == sim.Data.Nsteps-1
		if last || (csvEvery > 0 && (step+1)%csvEvery == 0) {
			path := filepath.Join(sim.Data.DirOut, io.Sf("particles-%06d.csv", step))
			if err := out.SaveCSV(path, out.Rows(dom, step)); err != nil {
				return err
			}
		}
	}

	// final state, for restarts
	return dom.SaveState(filepath.Join(sim.Data.DirOut, "state."+dom.EncType))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}
