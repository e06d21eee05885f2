/*
 * main.go, part of gopackmol.
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

// gopackmol packs molecular species into a simulation box with Packmol,
// following a TOML run file.
package main

import (
	"fmt"
	"log"
	"os"

	chem "github.com/rmera/gochem"
	"github.com/rmera/gopackmol/cfg"
)

func main() {
	log := log.New(os.Stderr, "", log.LstdFlags)

	if len(os.Args) != 2 {
		log.Fatal("one argument is needed: path of the run file")
	}

	c, err := cfg.New(os.Args[1])
	if err != nil {
		log.Fatal(fmt.Errorf("New: %w", err))
	}

	if c.NConfigurations > 0 {
		m, err := c.Multi()
		if err != nil {
			log.Fatal(fmt.Errorf("Multi: %w", err))
		}
		packed, err := m.RunAll()
		if err != nil {
			log.Fatal(fmt.Errorf("RunAll: %w", err))
		}
		for k, p := range packed {
			log.Printf("configuration %d: %d atoms, cell %.4f %.4f %.4f", k, p.Len(), p.Cell[0], p.Cell[1], p.Cell[2])
		}
		return
	}

	h, err := c.Handle()
	if err != nil {
		log.Fatal(fmt.Errorf("Handle: %w", err))
	}
	p, err := h.Run()
	if err != nil {
		log.Fatal(fmt.Errorf("Run: %w", err))
	}
	log.Printf("packed %d atoms, cell %.4f %.4f %.4f", p.Len(), p.Cell[0], p.Cell[1], p.Cell[2])
	if c.Output != "" {
		if err := chem.XYZFileWrite(c.Output, p.Coords[0], p.Molecule); err != nil {
			log.Fatal(fmt.Errorf("XYZFileWrite: %w", err))
		}
	}
}
