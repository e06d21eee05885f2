/*
 * cfg.go, part of gopackmol.
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

// Package cfg reads the TOML run file for the gopackmol command and
// assembles packing handles from it.
package cfg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/rmera/gopackmol"
)

// Species is one molecular species to pack: an XYZ file holding its
// conformer pool (one conformer per frame), how many copies to place,
// and optionally which conformer to use in single-configuration runs
// (negative counts from the end of the pool; the default is the last).
type Species struct {
	File  string `toml:"file"`
	Count int    `toml:"count"`
	ID    *int   `toml:"id"`
}

// Cfg holds the parameters of one packing run. Exactly one of Box and
// Density must be set. NConfigurations zero means a single packed
// structure with fixed conformer selection; any positive value switches
// to randomized multi-configuration packing.
type Cfg struct {
	Packmol         string    `toml:"packmol"`
	WorkDir         string    `toml:"work_dir"`
	Output          string    `toml:"output"`
	Tolerance       float64   `toml:"tolerance"`
	Box             []float64 `toml:"box"`
	Density         float64   `toml:"density"`
	PBC             *bool     `toml:"pbc"`
	NConfigurations int       `toml:"n_configurations"`
	Seed            int64     `toml:"seed"`
	Species         []Species `toml:"species"`
}

// New reads and validates a TOML run file. Defaults: the packmol binary
// from PATH, work_dir "packmol", tolerance 2.0, pbc true, seed 42.
func New(path string) (*Cfg, error) {
	errid := "cfg/New"
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	defer f.Close()
	var c Cfg
	dec := toml.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if c.Packmol == "" {
		c.Packmol = packmol.DefaultCommand
	}
	if c.WorkDir == "" {
		c.WorkDir = packmol.DefaultWorkDir
	}
	if c.Tolerance == 0 {
		c.Tolerance = packmol.DefaultTolerance
	}
	if c.Seed == 0 {
		c.Seed = packmol.DefaultSeed
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return &c, nil
}

func (c *Cfg) validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("no species given")
	}
	for i, s := range c.Species {
		if s.File == "" {
			return fmt.Errorf("species %d: no coordinate file given", i)
		}
		if s.Count <= 0 {
			return fmt.Errorf("species %d: count must be positive, got %d", i, s.Count)
		}
	}
	boxSet := len(c.Box) > 0
	if !boxSet && c.Density == 0 {
		return fmt.Errorf("either box or density must be set")
	}
	if boxSet && c.Density != 0 {
		return fmt.Errorf("box and density are mutually exclusive")
	}
	if boxSet && len(c.Box) != 1 && len(c.Box) != 3 {
		return fmt.Errorf("box needs 1 or 3 values, got %d", len(c.Box))
	}
	if c.NConfigurations < 0 {
		return fmt.Errorf("n_configurations can't be negative, got %d", c.NConfigurations)
	}
	return nil
}

// apply transfers the run parameters onto a handle.
func (c *Cfg) apply(h *packmol.Handle) error {
	h.SetCommand(c.Packmol)
	h.SetWorkDir(c.WorkDir)
	h.SetTolerance(c.Tolerance)
	if len(c.Box) > 0 {
		if err := h.SetBox(c.Box...); err != nil {
			return err
		}
	}
	if c.Density != 0 {
		h.SetDensity(c.Density)
	}
	if c.PBC != nil {
		h.SetPBC(*c.PBC)
	}
	return nil
}

// Handle builds a single-configuration handle from the run file,
// reading every species pool.
func (c *Cfg) Handle() (*packmol.Handle, error) {
	errid := "cfg/Handle"
	data, count, err := c.inventory()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	h, err := packmol.New(data, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := c.apply(h); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if ids := c.ids(); ids != nil {
		if err := h.SetDataIDs(ids); err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	return h, nil
}

// Multi builds a multi-configuration handle from the run file. It is an
// error to call it when n_configurations is not set.
func (c *Cfg) Multi() (*packmol.MultiHandle, error) {
	errid := "cfg/Multi"
	data, count, err := c.inventory()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	m, err := packmol.NewMulti(data, count, c.NConfigurations)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := c.apply(&m.Handle); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	m.SetSeed(c.Seed)
	return m, nil
}

// ids returns the fixed conformer ids, or nil when no species sets one.
// Species without an explicit id keep the default of -1, the last
// conformer of the pool.
func (c *Cfg) ids() []int {
	any := false
	ids := make([]int, len(c.Species))
	for i, s := range c.Species {
		ids[i] = -1
		if s.ID != nil {
			ids[i] = *s.ID
			any = true
		}
	}
	if !any {
		return nil
	}
	return ids
}
