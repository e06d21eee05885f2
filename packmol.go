/*
 * packmol.go, part of gopackmol.
 *
 *
 * Copyright 2026 Raul Mera <rmeraa{at}academicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package packmol

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	chem "github.com/rmera/gochem"
)

// ErrRunFailed is wrapped around any non-zero exit of the Packmol
// subprocess. There is no retry: the solver's intermediate state after a
// failure is unspecified, so a failed pack is fatal for the run.
var ErrRunFailed = errors.New("packmol exited with an error")

// Default values for the parameters of a packing run.
const (
	DefaultCommand   = "packmol"
	DefaultTolerance = 2.0 //Angstrom
	DefaultWorkDir   = "packmol"
)

// Handle prepares, runs and retrieves the results of one Packmol packing.
// Each species is given as a goChem molecule whose frames are the candidate
// conformers for that species; by default the last frame is the one placed.
type Handle struct {
	command   string
	wrkdir    string
	data      []*chem.Molecule
	count     []int
	ids       []int
	tolerance float64
	box       []float64 //nil until set or estimated from the density
	density   float64   //kg/m^3, 0 means not set
	pbc       bool
	version   string //empty means "probe the binary"
}

// New returns a Handle for packing count[i] copies of each species in data.
// The per-species options keep their defaults: last conformer of each pool,
// periodic boundaries on, tolerance of 2 A. Box or density must be set
// before calling Run.
func New(data []*chem.Molecule, count []int) (*Handle, error) {
	errid := "Handle/New"
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no species given", errid)
	}
	if len(data) != len(count) {
		return nil, fmt.Errorf("%s: %d species but %d placement counts", errid, len(data), len(count))
	}
	for i, c := range count {
		if c <= 0 {
			return nil, fmt.Errorf("%s: species %d: placement count must be positive, got %d", errid, i, c)
		}
	}
	for i, mol := range data {
		if mol == nil || len(mol.Coords) == 0 {
			return nil, fmt.Errorf("%s: species %d has no conformers", errid, i)
		}
	}
	H := &Handle{
		command:   DefaultCommand,
		wrkdir:    DefaultWorkDir,
		data:      data,
		count:     count,
		tolerance: DefaultTolerance,
		pbc:       true,
	}
	return H, nil
}

// SetCommand sets the path and name of the Packmol executable.
func (H *Handle) SetCommand(cmd string) {
	H.command = cmd
}

// SetWorkDir sets the directory where coordinate files, decks and the
// packed output are written. It is created by Run if missing.
func (H *Handle) SetWorkDir(d string) {
	H.wrkdir = d
}

// SetTolerance sets the minimum distance, in A, allowed between atoms of
// the packed structure.
func (H *Handle) SetTolerance(tol float64) {
	H.tolerance = tol
}

// SetBox sets the packing box, in A, with its lower corner at the origin.
// A single value is taken as the edge of a cubic box.
func (H *Handle) SetBox(box ...float64) error {
	errid := "Handle/SetBox"
	switch len(box) {
	case 1:
		H.box = []float64{box[0], box[0], box[0]}
	case 3:
		H.box = []float64{box[0], box[1], box[2]}
	default:
		return fmt.Errorf("%s: need 1 or 3 values, got %d", errid, len(box))
	}
	for _, x := range H.box {
		if x <= 0 {
			return fmt.Errorf("%s: box dimensions must be positive, got %v", errid, box)
		}
	}
	return nil
}

// SetDensity sets the target density of the packed system, in kg/m^3.
// The box is then estimated from the total mass of the inventory when
// Run is called. Box and density are mutually exclusive.
func (H *Handle) SetDensity(d float64) {
	H.density = d
}

// SetPBC sets whether the packed structure is periodic. When true, the
// returned structure carries the requested box as its cell.
func (H *Handle) SetPBC(on bool) {
	H.pbc = on
}

// SetDataIDs fixes which conformer of each pool is placed. A negative id
// counts from the end of the pool, so -1 is the last conformer. Must have
// one entry per species.
func (H *Handle) SetDataIDs(ids []int) error {
	errid := "Handle/SetDataIDs"
	if len(ids) != len(H.data) {
		return fmt.Errorf("%s: %d species but %d ids", errid, len(H.data), len(ids))
	}
	H.ids = make([]int, len(ids))
	copy(H.ids, ids)
	return nil
}

// SetVersion fixes the Packmol version instead of probing the binary for
// it. Useful when the version is known, as probing starts a short-lived
// extra process.
func (H *Handle) SetVersion(v string) {
	H.version = v
}

// check validates everything that can be validated before any file is
// written or process started.
func (H *Handle) check() error {
	errid := "Handle/check"
	if H.tolerance <= 0 {
		return fmt.Errorf("%s: tolerance must be positive, got %g", errid, H.tolerance)
	}
	if H.box == nil && H.density == 0 {
		return fmt.Errorf("%s: either box or density must be set", errid)
	}
	if H.box != nil && H.density != 0 {
		return fmt.Errorf("%s: box and density are mutually exclusive", errid)
	}
	if H.ids != nil {
		for i, id := range H.ids {
			if _, err := frameIndex(H.data[i], id); err != nil {
				return fmt.Errorf("%s: species %d: %w", errid, i, err)
			}
		}
	}
	return nil
}

// frameIndex resolves a possibly-negative conformer id against a pool.
func frameIndex(mol *chem.Molecule, id int) (int, error) {
	n := len(mol.Coords)
	if id < 0 {
		id = n + id
	}
	if id < 0 || id >= n {
		return 0, fmt.Errorf("conformer id %d out of range for a pool of %d", id, n)
	}
	return id, nil
}

// resolveBox fills in the box from the density when the latter was given,
// and returns the box as a fixed-size vector.
func (H *Handle) resolveBox() ([3]float64, error) {
	if H.density != 0 {
		box, err := BoxFromDensity(H.data, H.count, H.density)
		if err != nil {
			return box, fmt.Errorf("Handle/resolveBox: %w", err)
		}
		H.box = box[:]
		log.Printf("gopackmol: estimated box size: %.4f %.4f %.4f A", box[0], box[1], box[2])
		return box, nil
	}
	return [3]float64{H.box[0], H.box[1], H.box[2]}, nil
}

// resolveVersion returns the ordinal of the Packmol version, probing the
// binary unless a version was injected with SetVersion.
func (H *Handle) resolveVersion() (int, error) {
	errid := "Handle/resolveVersion"
	ver := H.version
	if ver == "" {
		v, err := ProbeVersion(H.command)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", errid, err)
		}
		ver = v
		H.version = v
		log.Printf("gopackmol: packmol version: %s", ver)
	}
	ord, err := versionOrdinal(ver)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	return ord, nil
}

// Run packs the system and returns the packed structure. It writes the
// selected conformer of each species and the input deck into the working
// directory, resolves the box and the Packmol version, invokes Packmol and
// reads the resulting coordinates back.
func (H *Handle) Run() (*Packed, error) {
	errid := "Handle/Run"
	if err := H.check(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(H.wrkdir, 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	for i, mol := range H.data {
		id := len(mol.Coords) - 1
		if H.ids != nil {
			var err error
			id, err = frameIndex(mol, H.ids[i])
			if err != nil {
				return nil, fmt.Errorf("%s: species %d: %w", errid, i, err)
			}
		}
		name := filepath.Join(H.wrkdir, fmt.Sprintf("%d.xyz", i))
		if err := chem.XYZFileWrite(name, mol.Coords[id], mol); err != nil {
			return nil, fmt.Errorf("%s: couldn't write species %d: %w", errid, i, err)
		}
	}
	box, err := H.resolveBox()
	if err != nil {
		return nil, err
	}
	ord, err := H.resolveVersion()
	if err != nil {
		return nil, err
	}
	inside, directive := placementBox(box, H.tolerance, H.pbc, ord)
	if H.pbc && !directive {
		log.Printf("gopackmol: packmol %s is too old for the pbc directive; the placement box is shrunk by the tolerance on every axis instead", H.version)
	}
	d := &deck{
		tolerance: H.tolerance,
		output:    "mixture.xyz",
		inside:    inside,
	}
	if directive {
		d.pbc = &box
	}
	for i, c := range H.count {
		d.blocks = append(d.blocks, block{file: fmt.Sprintf("%d.xyz", i), number: c})
	}
	if err := d.write(filepath.Join(H.wrkdir, "packmol.inp")); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := H.runSolver("packmol.inp", "packmol.out"); err != nil {
		return nil, err
	}
	return H.readPacked("mixture.xyz", box)
}

// runSolver invokes Packmol in the working directory with its standard
// input redirected from the named deck, capturing all output in logname.
func (H *Handle) runSolver(deckname, logname string) error {
	errid := "Handle/runSolver"
	com := fmt.Sprintf("%s < %s > %s 2>&1", H.command, deckname, logname)
	command := exec.Command("sh", "-c", com)
	command.Dir = H.wrkdir
	if err := command.Run(); err != nil {
		return fmt.Errorf("%s: %s: %w: %s", errid, deckname, ErrRunFailed, err.Error())
	}
	return nil
}
