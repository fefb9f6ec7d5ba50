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

// Package dirs holds the fixed system paths touched by vbt-install. All of
// them are derived from GlobalRootDir so that tests can relocate the whole
// tree with SetRootDir.
package dirs

import (
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// GlobalRootDir is the root directory of the system the tool
	// operates on, "/" outside of tests.
	GlobalRootDir string

	// FirmwareDir is where the kernel firmware loader looks for
	// requested firmware blobs.
	FirmwareDir string

	// VbtFirmwareFile is the installed VBT override blob.
	VbtFirmwareFile string

	// VbtFirmwareBackupFile preserves whatever was installed before the
	// first run; it is created at most once and never overwritten.
	VbtFirmwareBackupFile string

	// MkinitcpioConfFile is the mkinitcpio configuration whose FILES
	// array must reference the installed blob.
	MkinitcpioConfFile string

	// LimineDefaultFile is the limine bootloader defaults file carrying
	// the kernel command line.
	LimineDefaultFile string
)

var callbacks = []func(string){}

func init() {
	// init the global directories at startup
	SetRootDir("/")
}

// StripRootDir strips the custom global root directory from the specified
// argument.
func StripRootDir(dir string) string {
	if !filepath.IsAbs(dir) {
		panic(fmt.Sprintf("supplied path is not absolute %q", dir))
	}
	if !strings.HasPrefix(dir, GlobalRootDir) {
		panic(fmt.Sprintf("supplied path is not related to global root %q", dir))
	}
	result, err := filepath.Rel(GlobalRootDir, dir)
	if err != nil {
		panic(err)
	}
	return "/" + result
}

// AddRootDirCallback registers a callback for whenever the global root
// directory is changed. The callback is invoked with the new root directory
// after the exported variables above have been recomputed.
func AddRootDirCallback(c func(string)) {
	callbacks = append(callbacks, c)
}

// SetRootDir allows settings a new global root directory. This is useful
// for testing.
func SetRootDir(rootdir string) {
	if rootdir == "" {
		rootdir = "/"
	}
	GlobalRootDir = rootdir

	FirmwareDir = filepath.Join(rootdir, "/usr/lib/firmware")
	VbtFirmwareFile = filepath.Join(FirmwareDir, "vbt_patched.bin")
	VbtFirmwareBackupFile = VbtFirmwareFile + ".bak"
	MkinitcpioConfFile = filepath.Join(rootdir, "/etc/mkinitcpio.conf")
	LimineDefaultFile = filepath.Join(rootdir, "/etc/default/limine")

	for _, c := range callbacks {
		c(rootdir)
	}
}
