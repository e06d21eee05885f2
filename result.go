/*
 * result.go, part of gopackmol.
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
	"path/filepath"

	chem "github.com/rmera/gochem"
)

// Packed is a packed configuration: the combined molecule read back from
// Packmol, plus the simulation cell. XYZ files carry no cell, so Cell and
// PBC are only meaningful when periodic boundaries were requested.
type Packed struct {
	*chem.Molecule
	Cell [3]float64
	PBC  [3]bool
}

// readPacked reads a Packmol output file from the working directory. The
// cell is always the requested box, not the placement bound: on old
// Packmol versions the deck uses a box shrunk by the tolerance, but that
// margin only exists to keep periodic images from clashing, so the
// nominal box is what the packed structure reports.
func (H *Handle) readPacked(name string, box [3]float64) (*Packed, error) {
	mol, err := chem.XYZFileRead(filepath.Join(H.wrkdir, name))
	if err != nil {
		return nil, fmt.Errorf("Handle/readPacked: couldn't read %s: %w", name, err)
	}
	p := &Packed{Molecule: mol}
	if H.pbc {
		p.Cell = box
		p.PBC = [3]bool{true, true, true}
	}
	return p, nil
}
