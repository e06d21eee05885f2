/*
 * load.go, part of gopackmol.
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

package cfg

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/gochem"
)

// inventory reads every species pool and returns the molecules with
// their placement counts, in run-file order.
func (c *Cfg) inventory() ([]*chem.Molecule, []int, error) {
	data := make([]*chem.Molecule, len(c.Species))
	count := make([]int, len(c.Species))
	for i, s := range c.Species {
		mol, err := readPool(s.File)
		if err != nil {
			return nil, nil, fmt.Errorf("species %d (%s): %w", i, s.File, err)
		}
		data[i] = mol
		count[i] = s.Count
	}
	return data, count, nil
}

// readPool reads a conformer pool. Conformer pools can get big, so
// zstd- and gzip-compressed XYZ files are accepted too, keyed by the
// file extension; they are inflated to a temporary file first, since
// the XYZ reader wants a path.
func readPool(path string) (*chem.Molecule, error) {
	var opener func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		opener = func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return r.IOReadCloser(), nil
		}
	case ".gz":
		opener = func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	default:
		return chem.XYZFileRead(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := opener(f)
	if err != nil {
		return nil, fmt.Errorf("couldn't decompress: %w", err)
	}
	defer r.Close()
	tmp, err := os.CreateTemp("", "gopackmol-pool-*.xyz")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("couldn't decompress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return chem.XYZFileRead(tmp.Name())
}
