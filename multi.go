/*
 * multi.go, part of gopackmol.
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
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	chem "github.com/rmera/gochem"
)

// DefaultSeed seeds the conformer sampling of a MultiHandle unless
// SetSeed is called.
const DefaultSeed int64 = 42

// MultiHandle packs several independent configurations of the same
// inventory. Instead of placing one fixed conformer per species, each
// placement gets a conformer drawn at random from the species' pool, so
// the configurations sample the conformational variety of the input.
// Pools from a conformer generator (e.g. CREST) pair well with this.
//
// Box resolution and deck grammar are shared with Handle; fixed conformer
// ids do not apply and are ignored here.
type MultiHandle struct {
	Handle
	nconf int
	seed  int64
}

// NewMulti returns a MultiHandle that will pack nconf configurations of
// count[i] copies of each species in data.
func NewMulti(data []*chem.Molecule, count []int, nconf int) (*MultiHandle, error) {
	errid := "MultiHandle/NewMulti"
	if nconf <= 0 {
		return nil, fmt.Errorf("%s: number of configurations must be positive, got %d", errid, nconf)
	}
	H, err := New(data, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return &MultiHandle{Handle: *H, nconf: nconf, seed: DefaultSeed}, nil
}

// SetSeed sets the seed of the conformer sampling. Two runs with the same
// seed and inventory select exactly the same conformers.
func (M *MultiHandle) SetSeed(seed int64) {
	M.seed = seed
}

// sampleSelections draws, for every species, count[i] conformer indices
// with replacement from [0, pools[i]). The generator is explicit so each
// run owns its sequence and repeated or concurrent runs in one process
// don't interfere.
func sampleSelections(rng *rand.Rand, pools, count []int) [][]int {
	sel := make([][]int, len(pools))
	for i, p := range pools {
		sel[i] = make([]int, count[i])
		for j := range sel[i] {
			sel[i][j] = rng.Intn(p)
		}
	}
	return sel
}

// RunAll packs all configurations sequentially and returns them in order.
// Every conformer of every pool is written out once, then each
// configuration gets its own deck, Packmol invocation and output file,
// all uniquely named by configuration index.
func (M *MultiHandle) RunAll() ([]*Packed, error) {
	errid := "MultiHandle/RunAll"
	if err := M.check(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(M.wrkdir, 0755); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	pools := make([]int, len(M.data))
	for i, mol := range M.data {
		pools[i] = len(mol.Coords)
		for j := range mol.Coords {
			name := filepath.Join(M.wrkdir, fmt.Sprintf("%d_%d.xyz", i, j))
			if err := chem.XYZFileWrite(name, mol.Coords[j], mol); err != nil {
				return nil, fmt.Errorf("%s: couldn't write conformer %d of species %d: %w", errid, j, i, err)
			}
		}
	}
	box, err := M.resolveBox()
	if err != nil {
		return nil, err
	}
	ord, err := M.resolveVersion()
	if err != nil {
		return nil, err
	}
	inside, directive := placementBox(box, M.tolerance, M.pbc, ord)
	if M.pbc && !directive {
		log.Printf("gopackmol: packmol %s is too old for the pbc directive; the placement box is shrunk by the tolerance on every axis instead", M.version)
	}
	rng := rand.New(rand.NewSource(M.seed))
	packed := make([]*Packed, 0, M.nconf)
	for k := 0; k < M.nconf; k++ {
		d := &deck{
			tolerance: M.tolerance,
			output:    fmt.Sprintf("mixture_%d.xyz", k),
			inside:    inside,
		}
		if directive {
			d.pbc = &box
		}
		//one block per placement, each with its own sampled conformer
		for i, sel := range sampleSelections(rng, pools, M.count) {
			for _, j := range sel {
				d.blocks = append(d.blocks, block{file: fmt.Sprintf("%d_%d.xyz", i, j), number: 1})
			}
		}
		deckname := fmt.Sprintf("packmol_%d.inp", k)
		if err := d.write(filepath.Join(M.wrkdir, deckname)); err != nil {
			return nil, fmt.Errorf("%s: configuration %d: %w", errid, k, err)
		}
		if err := M.runSolver(deckname, fmt.Sprintf("packmol_%d.out", k)); err != nil {
			return nil, fmt.Errorf("%s: configuration %d: %w", errid, k, err)
		}
		p, err := M.readPacked(d.output, box)
		if err != nil {
			return nil, fmt.Errorf("%s: configuration %d: %w", errid, k, err)
		}
		packed = append(packed, p)
	}
	return packed, nil
}
