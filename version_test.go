/*
 * version_test.go, part of gopackmol.
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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseVersion(Te *testing.T) {
	v, err := parseVersion("Packmol Version 18.3.0\n")
	if err != nil {
		Te.Error(err)
	}
	if v != "18.3.0" {
		Te.Errorf("got %q, want 18.3.0", v)
	}
	if _, err := parseVersion("no numbers here\n"); !errors.Is(err, ErrVersionNotFound) {
		Te.Errorf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestVersionOrdinal(Te *testing.T) {
	for _, c := range []struct {
		in  string
		out int
	}{
		{"20.15.1", 20151},
		{"20.14.2", 20142},
		{"18.3.0", 1830},
		{"2.0.1", 201},
	} {
		ord, err := versionOrdinal(c.in)
		if err != nil {
			Te.Error(err)
		}
		if ord != c.out {
			Te.Errorf("%s: got %d, want %d", c.in, ord, c.out)
		}
	}
	if _, err := versionOrdinal("twenty"); err == nil {
		Te.Error("expected an error for a non-numeric version")
	}
}

// fakeBinary writes an executable sh script into dir and returns its path.
func fakeBinary(Te *testing.T, dir, name, script string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		Te.Fatal(err)
	}
	return path
}

// A fake packmol that prints its banner and then, like the real one,
// hangs waiting for input. ProbeVersion must get the version and kill it
// well before the sleep runs out.
func TestProbeVersion(Te *testing.T) {
	dir := Te.TempDir()
	bin := fakeBinary(Te, dir, "packmol", "#!/bin/sh\n"+
		"echo ''\n"+
		"echo ' Packmol - Version 20.15.1 '\n"+
		"sleep 10 > /dev/null 2>&1\n")
	start := time.Now()
	v, err := ProbeVersion(bin)
	if err != nil {
		Te.Fatal(err)
	}
	if v != "20.15.1" {
		Te.Errorf("got %q, want 20.15.1", v)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		Te.Errorf("probe took %v, the process wasn't killed", elapsed)
	}
}

func TestProbeVersionNoBanner(Te *testing.T) {
	dir := Te.TempDir()
	bin := fakeBinary(Te, dir, "packmol", "#!/bin/sh\n"+
		"echo 'some chatter without the magic word'\n"+
		"sleep 10 > /dev/null 2>&1\n")
	start := time.Now()
	_, err := ProbeVersion(bin)
	if !errors.Is(err, ErrVersionNotFound) {
		Te.Errorf("expected ErrVersionNotFound, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		Te.Errorf("probe took %v, the timeout didn't fire", elapsed)
	}
}

func TestProbeVersionNoBinary(Te *testing.T) {
	if _, err := ProbeVersion(filepath.Join(Te.TempDir(), "not-there")); err == nil {
		Te.Error("expected an error for a missing binary")
	}
}
