/*
 * packmol_test.go, part of gopackmol.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/gochem"
)

// A stand-in for packmol: it finds the output name in the deck it is fed
// and writes a small fixed structure there.
const fakeSolver = "#!/bin/sh\n" +
	"out=$(awk '/^output /{print $2}')\n" +
	"printf '3\\n\\nO 0.000 0.000 0.117\\nH 0.757 0.586 -0.471\\nH -0.757 0.586 -0.471\\n' > \"$out\"\n"

// waterPool writes an n-conformer water pool (frames shifted along z so
// they are distinguishable) and reads it back as one molecule.
func waterPool(Te *testing.T, n int) *chem.Molecule {
	Te.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		z := float64(i)
		fmt.Fprintf(&b, "3\nconformer %d\n", i)
		fmt.Fprintf(&b, "O    0.000   0.000   %.3f\n", z)
		fmt.Fprintf(&b, "H    0.757   0.586   %.3f\n", z-0.588)
		fmt.Fprintf(&b, "H   -0.757   0.586   %.3f\n", z-0.588)
	}
	path := filepath.Join(Te.TempDir(), "pool.xyz")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		Te.Fatal(err)
	}
	mol, err := chem.XYZFileRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if len(mol.Coords) != n {
		Te.Fatalf("pool read back with %d conformers, want %d", len(mol.Coords), n)
	}
	return mol
}

// testHandle wires a handle to the fake solver in a fresh directory.
func testHandle(Te *testing.T, data []*chem.Molecule, count []int) *Handle {
	Te.Helper()
	H, err := New(data, count)
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	H.SetCommand(fakeBinary(Te, Te.TempDir(), "packmol", fakeSolver))
	H.SetWorkDir(filepath.Join(dir, "packmol"))
	return H
}

func TestNewValidation(Te *testing.T) {
	mol := waterMol(Te)
	if _, err := New(nil, nil); err == nil {
		Te.Error("expected an error for an empty inventory")
	}
	if _, err := New([]*chem.Molecule{mol}, []int{1, 2}); err == nil {
		Te.Error("expected an error for mismatched counts")
	}
	if _, err := New([]*chem.Molecule{mol}, []int{0}); err == nil {
		Te.Error("expected an error for a zero count")
	}
}

func TestConfigErrorsBeforeAnyFile(Te *testing.T) {
	mol := waterMol(Te)
	H, err := New([]*chem.Molecule{mol}, []int{2})
	if err != nil {
		Te.Fatal(err)
	}
	wrkdir := filepath.Join(Te.TempDir(), "packmol")
	H.SetWorkDir(wrkdir)
	//neither box nor density
	if _, err := H.Run(); err == nil {
		Te.Error("expected an error with neither box nor density set")
	}
	//both box and density
	if err := H.SetBox(10); err != nil {
		Te.Fatal(err)
	}
	H.SetDensity(997)
	if _, err := H.Run(); err == nil {
		Te.Error("expected an error with both box and density set")
	}
	//bad conformer id
	H.SetDensity(0)
	if err := H.SetDataIDs([]int{5}); err != nil {
		Te.Fatal(err)
	}
	if _, err := H.Run(); err == nil {
		Te.Error("expected an error for an out-of-range conformer id")
	}
	//id list of the wrong length is rejected by the setter itself
	if err := H.SetDataIDs([]int{0, 0}); err == nil {
		Te.Error("expected an error for mismatched ids")
	}
	if _, err := os.Stat(wrkdir); !os.IsNotExist(err) {
		Te.Error("configuration errors must fire before anything is written")
	}
}

func TestSetBox(Te *testing.T) {
	mol := waterMol(Te)
	H, err := New([]*chem.Molecule{mol}, []int{1})
	if err != nil {
		Te.Fatal(err)
	}
	if err := H.SetBox(10, 20); err == nil {
		Te.Error("expected an error for 2 box values")
	}
	if err := H.SetBox(-1); err == nil {
		Te.Error("expected an error for a negative box")
	}
	if err := H.SetBox(10); err != nil {
		Te.Error(err)
	}
}

func TestRunPBC(Te *testing.T) {
	mol := waterMol(Te)
	H := testHandle(Te, []*chem.Molecule{mol}, []int{7})
	H.SetVersion("20.15.1")
	if err := H.SetBox(10); err != nil { //scalar broadcast to a cube
		Te.Fatal(err)
	}
	p, err := H.Run()
	if err != nil {
		Te.Fatal(err)
	}
	deck, err := os.ReadFile(filepath.Join(H.wrkdir, "packmol.inp"))
	if err != nil {
		Te.Fatal(err)
	}
	text := string(deck)
	if !strings.Contains(text, "pbc 10.0000 10.0000 10.0000") {
		Te.Errorf("missing pbc directive:\n%s", text)
	}
	if !strings.Contains(text, "inside box 0 0 0 10.0000 10.0000 10.0000") {
		Te.Errorf("wrong placement box:\n%s", text)
	}
	if !strings.Contains(text, "number 7") {
		Te.Errorf("wrong placement count:\n%s", text)
	}
	if n := strings.Count(text, "end structure"); n != 1 {
		Te.Errorf("single mode emits one block per species, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(H.wrkdir, "0.xyz")); err != nil {
		Te.Error("species coordinate file wasn't written")
	}
	if p.Len() != 3 {
		Te.Errorf("packed structure has %d atoms, want 3", p.Len())
	}
	if p.Cell != [3]float64{10, 10, 10} {
		Te.Errorf("cell %v, want the requested box", p.Cell)
	}
	if p.PBC != [3]bool{true, true, true} {
		Te.Errorf("all axes should be periodic, got %v", p.PBC)
	}
}

func TestRunOldVersionPBC(Te *testing.T) {
	mol := waterMol(Te)
	H := testHandle(Te, []*chem.Molecule{mol}, []int{2})
	H.SetVersion("18.0.0")
	if err := H.SetBox(10); err != nil {
		Te.Fatal(err)
	}
	p, err := H.Run()
	if err != nil {
		Te.Fatal(err)
	}
	deck, err := os.ReadFile(filepath.Join(H.wrkdir, "packmol.inp"))
	if err != nil {
		Te.Fatal(err)
	}
	text := string(deck)
	if strings.Contains(text, "pbc ") {
		Te.Errorf("18.0.0 can't take a pbc directive:\n%s", text)
	}
	if !strings.Contains(text, "inside box 0 0 0 6.0000 6.0000 6.0000") {
		Te.Errorf("placement box should be shrunk by 2*tolerance:\n%s", text)
	}
	//the cell reported is still the nominal box, not the shrunk one
	if p.Cell != [3]float64{10, 10, 10} {
		Te.Errorf("cell %v, want the unscaled box", p.Cell)
	}
}

func TestRunNoPBC(Te *testing.T) {
	mol := waterMol(Te)
	H := testHandle(Te, []*chem.Molecule{mol}, []int{2})
	H.SetVersion("18.0.0")
	H.SetPBC(false)
	if err := H.SetBox(10); err != nil {
		Te.Fatal(err)
	}
	p, err := H.Run()
	if err != nil {
		Te.Fatal(err)
	}
	deck, err := os.ReadFile(filepath.Join(H.wrkdir, "packmol.inp"))
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(deck), "inside box 0 0 0 10.0000 10.0000 10.0000") {
		Te.Errorf("without pbc the box must be used as is:\n%s", deck)
	}
	if p.PBC != [3]bool{false, false, false} || p.Cell != [3]float64{0, 0, 0} {
		Te.Errorf("non-periodic result shouldn't carry a cell: %v %v", p.Cell, p.PBC)
	}
}

func TestRunSelectsConformer(Te *testing.T) {
	pool := waterPool(Te, 3)
	H := testHandle(Te, []*chem.Molecule{pool}, []int{1})
	H.SetVersion("20.15.1")
	if err := H.SetBox(10); err != nil {
		Te.Fatal(err)
	}
	if err := H.SetDataIDs([]int{1}); err != nil {
		Te.Fatal(err)
	}
	if _, err := H.Run(); err != nil {
		Te.Fatal(err)
	}
	written, err := chem.XYZFileRead(filepath.Join(H.wrkdir, "0.xyz"))
	if err != nil {
		Te.Fatal(err)
	}
	//conformer 1 has its oxygen at z=1
	if z := written.Coords[0].At(0, 2); z < 0.9 || z > 1.1 {
		Te.Errorf("species file holds the wrong conformer, oxygen z = %v", z)
	}
}

func TestRunSolverFailure(Te *testing.T) {
	mol := waterMol(Te)
	H, err := New([]*chem.Molecule{mol}, []int{1})
	if err != nil {
		Te.Fatal(err)
	}
	dir := Te.TempDir()
	H.SetCommand(fakeBinary(Te, Te.TempDir(), "packmol", "#!/bin/sh\nexit 1\n"))
	H.SetWorkDir(filepath.Join(dir, "packmol"))
	H.SetVersion("20.15.1")
	if err := H.SetBox(10); err != nil {
		Te.Fatal(err)
	}
	if _, err := H.Run(); !errors.Is(err, ErrRunFailed) {
		Te.Errorf("expected ErrRunFailed, got %v", err)
	}
}
