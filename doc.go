/*
 * doc.go, part of gopackmol.
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

/*
Package packmol builds initial condensed-phase configurations by driving the
Packmol program. Given one conformer pool per molecular species and the number
of copies of each species to place, it writes the coordinate files and the
input deck Packmol expects, runs it, and reads the packed structure back as a
goChem molecule, stamping the simulation cell when periodic boundary conditions
are requested.

Packmol itself must be installed separately (https://m3g.github.io/packmol/).
The deck syntax for periodic boundaries changed in Packmol 20.15.0, so the
library probes the installed version and falls back to shrinking the placement
box by the tolerance on older versions.
*/
package packmol
