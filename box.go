/*
 * box.go, part of gopackmol.
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
	"math"

	chem "github.com/rmera/gochem"
	"gonum.org/v1/gonum/floats"
)

const (
	amu2Kg = 1.66053906660e-27
	m3ToA3 = 1e30
)

// BoxFromDensity returns the cubic box, in A, whose volume gives the
// requested density, in kg/m^3, for count[i] copies of each species in
// data. Masses come from the species topologies.
func BoxFromDensity(data []*chem.Molecule, count []int, density float64) ([3]float64, error) {
	errid := "BoxFromDensity"
	var box [3]float64
	if density <= 0 {
		return box, fmt.Errorf("%s: density must be positive, got %g", errid, density)
	}
	if len(data) != len(count) {
		return box, fmt.Errorf("%s: %d species but %d placement counts", errid, len(data), len(count))
	}
	var total float64 //amu
	for i, mol := range data {
		masses, err := mol.Masses()
		if err != nil {
			return box, fmt.Errorf("%s: species %d: %w", errid, i, err)
		}
		total += floats.Sum(masses) * float64(count[i])
	}
	volume := total * amu2Kg / density * m3ToA3 //A^3
	edge := math.Cbrt(volume)
	return [3]float64{edge, edge, edge}, nil
}
