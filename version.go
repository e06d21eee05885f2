/*
 * version.go, part of gopackmol.
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
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrVersionNotFound means the program started but never printed a
// recognizable "Version X.Y.Z" line. The pbc deck syntax depends on the
// version, so there is no safe default to fall back to.
var ErrVersionNotFound = errors.New("no version found in packmol output")

// probeTimeout bounds how long ProbeVersion waits for the banner.
const probeTimeout = 1 * time.Second

var versionRe = regexp.MustCompile(`Version (\d+\.\d+\.\d+)`)

// ProbeVersion runs the Packmol binary with no input and extracts the
// version from its banner, e.g. "20.15.1".
//
// Packmol prints its banner and then blocks forever reading standard
// input, so the banner is consumed from the live process: a reader
// goroutine collects stdout until a line containing "Version" or EOF,
// the caller waits at most probeTimeout for it, and the process is then
// killed unconditionally. Without the bound, probing would hang on the
// interactive prompt.
func ProbeVersion(command string) (string, error) {
	errid := "ProbeVersion"
	cmd := exec.Command(command)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errid, err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%s: couldn't start %s: %w", errid, command, err)
	}
	banner := make(chan string, 1)
	go func() {
		var buf strings.Builder
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			buf.WriteString(sc.Text())
			buf.WriteByte('\n')
			if strings.Contains(sc.Text(), "Version") {
				break
			}
		}
		banner <- buf.String()
	}()
	var text string
	received := false
	select {
	case text = <-banner:
		received = true
	case <-time.After(probeTimeout):
	}
	//The process is still waiting on stdin even if the version line was
	//found, so it is killed in every case. Killing closes the pipe, which
	//unblocks the reader if the timeout won the select above.
	cmd.Process.Kill()
	if !received {
		text = <-banner
	}
	cmd.Wait()
	return parseVersion(text)
}

// parseVersion extracts the dotted version number from banner text.
func parseVersion(banner string) (string, error) {
	m := versionRe.FindStringSubmatch(banner)
	if m == nil {
		return "", fmt.Errorf("parseVersion: %w: %q", ErrVersionNotFound, banner)
	}
	return m[1], nil
}

// pbcMinVersion is the first version, in versionOrdinal's scheme, whose
// deck grammar accepts a pbc directive (20.15.0).
const pbcMinVersion = 20150

// versionOrdinal collapses a dotted version into the integer Packmol's
// own comparisons use: the digits of major.minor.patch concatenated, so
// "20.15.1" is 20151. Components with an unusual digit count can order
// wrongly under this scheme; it is kept as is because the 20150 threshold
// is defined in it.
func versionOrdinal(v string) (int, error) {
	ord, err := strconv.Atoi(strings.ReplaceAll(v, ".", ""))
	if err != nil {
		return 0, fmt.Errorf("versionOrdinal: unparseable version %q: %w", v, err)
	}
	return ord, nil
}
