/*
 * script.go, part of gopackmol.
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
	"os"
	"strings"
)

// placementBox returns the bound used in the structure blocks of the deck
// and whether the deck carries a pbc directive. On versions that predate
// the directive, a periodic system is approximated by shrinking the
// placement box by 2*tol on every axis, which leaves a tolerance-wide
// margin between atoms and their periodic images.
func placementBox(box [3]float64, tol float64, pbc bool, ordinal int) ([3]float64, bool) {
	if !pbc {
		return box, false
	}
	if ordinal >= pbcMinVersion {
		return box, true
	}
	for i := range box {
		box[i] -= 2 * tol
	}
	return box, false
}

// block is one placement unit of the deck: number copies of the molecule
// in file, inside the deck's placement box.
type block struct {
	file   string
	number int
}

// deck is a complete Packmol input. Every coordinate file referenced by
// its blocks must already exist in the directory the deck is run from.
type deck struct {
	tolerance float64
	output    string
	pbc       *[3]float64 //when non-nil, a pbc directive with this box is emitted
	inside    [3]float64  //placement bound for the structure blocks
	blocks    []block
}

// Packmol is strict about its numbers; everything is rendered with 4
// decimals.
func formatBox(box [3]float64) string {
	return fmt.Sprintf("%.4f %.4f %.4f", box[0], box[1], box[2])
}

// render produces the deck text.
func (d *deck) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tolerance %.4f\n", d.tolerance)
	fmt.Fprintf(&b, "filetype xyz\n")
	fmt.Fprintf(&b, "output %s\n", d.output)
	if d.pbc != nil {
		fmt.Fprintf(&b, "pbc %s\n", formatBox(*d.pbc))
	}
	for _, bl := range d.blocks {
		fmt.Fprintf(&b, "\nstructure %s\n", bl.file)
		fmt.Fprintf(&b, "  number %d\n", bl.number)
		fmt.Fprintf(&b, "  inside box 0 0 0 %s\n", formatBox(d.inside))
		fmt.Fprintf(&b, "end structure\n")
	}
	return b.String()
}

// write renders the deck into the named file.
func (d *deck) write(path string) error {
	if err := os.WriteFile(path, []byte(d.render()), 0644); err != nil {
		return fmt.Errorf("deck/write: %w", err)
	}
	return nil
}
