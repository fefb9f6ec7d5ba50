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

// Package mkinitcpio edits the mkinitcpio(8) configuration so that extra
// files are embedded in the generated initramfs images.
package mkinitcpio

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/canonical/vbt-install/osutil"
)

// filesRe matches a single-line FILES array directive. The directive must
// start its line, so commented out directives never match. Multi-line
// arrays are not recognized.
var filesRe = regexp.MustCompile(`(?m)^FILES=\((.*?)\)[ \t]*$`)

// Conf points to a mkinitcpio configuration file. The file does not need
// to exist yet.
type Conf struct {
	path string
}

// NewConf returns a Conf for the configuration file at path.
func NewConf(path string) *Conf {
	return &Conf{path: path}
}

// AddFile ensures that the given file is listed in the FILES array
// directive of the configuration. A missing configuration file is created
// holding just the new directive. The updated configuration is written
// atomically with mode 0644. AddFile reports whether the configuration
// was modified, so a file that is already listed leaves it untouched.
func (c *Conf) AddFile(file string) (changed bool, err error) {
	content, err := os.ReadFile(c.path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	newContent, changed := addToFiles(string(content), file)
	if !changed {
		return false, nil
	}

	if err := osutil.AtomicWriteFile(c.path, []byte(newContent), 0644, 0); err != nil {
		return false, err
	}
	return true, nil
}

// addToFiles inserts file into the FILES array directive of the given
// configuration content. Content that mentions file anywhere is returned
// unchanged. The first matching directive is extended in place; without
// one a fresh directive is appended at the end.
func addToFiles(content, file string) (string, bool) {
	if strings.Contains(content, file) {
		return content, false
	}

	if loc := filesRe.FindStringSubmatchIndex(content); loc != nil {
		// loc[2]:loc[3] delimit the text between the parens
		fields := strings.Fields(content[loc[2]:loc[3]])
		fields = append(fields, file)
		return content[:loc[2]] + strings.Join(fields, " ") + content[loc[3]:], true
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + fmt.Sprintf("FILES=(%s)\n", file), true
}
