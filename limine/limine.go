// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package limine edits the limine bootloader defaults file that provides
// the kernel command line for generated boot entries.
package limine

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mvo5/goconfigparser"

	"github.com/canonical/vbt-install/osutil"
)

// cmdlineRe matches the line carrying the default kernel command line.
// The value must be double quoted. Anything else, a commented out line
// included, stays unrecognized on purpose.
var cmdlineRe = regexp.MustCompile(`(?m)^[ \t]*KERNEL_CMDLINE\[default\]="(.*)"[ \t]*$`)

// Defaults points to a limine defaults file, /etc/default/limine on a
// real system.
type Defaults struct {
	path string
}

// NewDefaults returns a Defaults for the file at path.
func NewDefaults(path string) *Defaults {
	return &Defaults{path: path}
}

// AddKernelParameter ensures that param is part of the default kernel
// command line, inserting it just before the closing quote. It reports
// whether the file was modified, so a parameter that is already present
// leaves it untouched. A file without a recognizable command line is
// never guessed at; the returned error tells the operator what to do by
// hand instead. The updated file is written atomically with mode 0644.
func (d *Defaults) AddKernelParameter(param string) (changed bool, err error) {
	content, err := os.ReadFile(d.path)
	if err != nil {
		return false, err
	}

	newContent, changed, ok := insertParameter(string(content), param)
	if !ok {
		return false, fmt.Errorf(`cannot find a KERNEL_CMDLINE[default]="..." line in %s: add %q to the kernel command line of your boot entries manually`, d.path, param)
	}
	if !changed {
		return false, nil
	}

	if err := osutil.AtomicWriteFile(d.path, []byte(newContent), 0644, 0); err != nil {
		return false, err
	}
	return true, nil
}

// KernelCmdline returns the current default kernel command line with the
// surrounding quotes stripped.
func (d *Defaults) KernelCmdline() (string, error) {
	cfg := goconfigparser.New()
	cfg.AllowNoSectionHeader = true
	if err := cfg.ReadFile(d.path); err != nil {
		return "", err
	}
	value, err := cfg.Get("", "KERNEL_CMDLINE[default]")
	if err != nil {
		return "", err
	}
	return strings.Trim(value, `"`), nil
}

// insertParameter inserts param into the quoted kernel command line of
// the given defaults file content. Content that mentions param anywhere
// is returned unchanged. ok is false when no line matches cmdlineRe.
func insertParameter(content, param string) (newContent string, changed, ok bool) {
	if strings.Contains(content, param) {
		return content, false, true
	}

	loc := cmdlineRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", false, false
	}

	// loc[2]:loc[3] delimit the quoted value
	sep := " "
	if loc[2] == loc[3] {
		sep = ""
	}
	return content[:loc[3]] + sep + param + content[loc[3]:], true, true
}
