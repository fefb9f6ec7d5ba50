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

// Package initramfs regenerates the initramfs images after the firmware
// payload or the mkinitcpio configuration changed.
package initramfs

import (
	"fmt"
	"os/exec"

	"github.com/canonical/vbt-install/logger"
	"github.com/canonical/vbt-install/osutil"
	"github.com/canonical/vbt-install/strutil"
)

// generators are the known initramfs generators with their arguments, in
// preference order. limine-mkinitcpio runs mkinitcpio itself and then
// refreshes the limine boot entries on top.
var generators = [][]string{
	{"limine-mkinitcpio"},
	{"mkinitcpio", "-P"},
}

// Error is returned when an initramfs generator fails.
type Error struct {
	cmd      []string
	msg      []byte
	exitCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v failed with exit status %d: %s", e.cmd, e.exitCode, e.msg)
}

// run invokes the given generator, returning its combined output (and
// wrapped error).
func run(args ...string) ([]byte, error) {
	bs, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		exitCode, _ := osutil.ExitCode(err)
		return nil, &Error{cmd: args, exitCode: exitCode, msg: bs}
	}

	return bs, nil
}

// RebuildCmd is called from Rebuild to actually invoke the generator.
// It's exported so it can be overridden by testing.
var RebuildCmd = run

// Rebuild regenerates the initramfs images with the first generator
// found on PATH. Without any generator installed the returned error
// tells the operator to rebuild manually.
func Rebuild() error {
	for _, gen := range generators {
		if !osutil.ExecutableExists(gen[0]) {
			continue
		}
		logger.Noticef("Regenerating the initramfs with %s...", gen[0])
		output, err := RebuildCmd(gen...)
		if err != nil {
			return err
		}
		logger.Debugf("%s output:\n%s", gen[0], output)
		return nil
	}

	names := make([]string, len(generators))
	for i, gen := range generators {
		names[i] = gen[0]
	}
	return fmt.Errorf("cannot regenerate the initramfs: none of %s is available; rebuild it manually", strutil.Quoted(names))
}
