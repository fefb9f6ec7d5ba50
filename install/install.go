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

// Package install applies the VBT firmware override to the running
// system: it installs the firmware blob, wires it into the initramfs and
// the kernel command line, and regenerates the boot images.
package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/canonical/vbt-install/dirs"
	"github.com/canonical/vbt-install/initramfs"
	"github.com/canonical/vbt-install/limine"
	"github.com/canonical/vbt-install/logger"
	"github.com/canonical/vbt-install/mkinitcpio"
	"github.com/canonical/vbt-install/osutil"
)

// Run installs the VBT firmware override from the given source blob. The
// steps run in a fixed order and the first failing step aborts the run
// with everything before it left in place; every step is idempotent, so
// re-running after a failure picks up where things stopped.
func Run(vbtFile string) error {
	if err := checkPreconditions(vbtFile); err != nil {
		return err
	}
	if err := backupCurrent(vbtFile); err != nil {
		return err
	}
	if err := installFirmware(vbtFile); err != nil {
		return err
	}
	if err := updateMkinitcpio(); err != nil {
		return err
	}
	if err := updateLimine(); err != nil {
		return err
	}

	return initramfs.Rebuild()
}

// kernelParameter returns the i915 activation parameter for the
// installed blob. The firmware loader resolves the bare basename
// relative to the firmware directory.
func kernelParameter() string {
	return "i915.vbt_firmware=" + filepath.Base(dirs.VbtFirmwareFile)
}

// checkPreconditions verifies everything that must be in place before
// the first mutation, so that a doomed run changes nothing at all.
func checkPreconditions(vbtFile string) error {
	// opening a directory succeeds, catch that before it fails mid-run
	if osutil.IsDirectory(vbtFile) {
		return fmt.Errorf("cannot read the VBT firmware blob: %s is a directory", vbtFile)
	}
	f, err := os.Open(vbtFile)
	if err != nil {
		return fmt.Errorf("cannot read the VBT firmware blob: %v", err)
	}
	f.Close()

	if !osutil.FileExists(dirs.LimineDefaultFile) {
		return fmt.Errorf("cannot find %s: add %q to the kernel command line of your boot entries manually", dirs.LimineDefaultFile, kernelParameter())
	}

	return nil
}

// backupCurrent preserves whatever firmware blob is installed right now.
// The backup is written at most once and never overwritten, so it always
// holds the blob from before the first run. A blob that already matches
// the incoming one is a leftover of an earlier run and is not backed up.
func backupCurrent(vbtFile string) error {
	if !osutil.FileExists(dirs.VbtFirmwareFile) {
		logger.Debugf("no firmware blob installed, nothing to back up")
		return nil
	}
	if osutil.FileExists(dirs.VbtFirmwareBackupFile) {
		logger.Noticef("Backup %s exists already, keeping it.", dirs.VbtFirmwareBackupFile)
		return nil
	}
	if osutil.FilesAreEqual(dirs.VbtFirmwareFile, vbtFile) {
		logger.Debugf("the installed firmware blob matches %s, nothing to back up", vbtFile)
		return nil
	}

	logger.Noticef("Backing up %s to %s...", dirs.VbtFirmwareFile, dirs.VbtFirmwareBackupFile)
	if err := osutil.CopyFile(dirs.VbtFirmwareFile, dirs.VbtFirmwareBackupFile, osutil.CopyFlagSync); err != nil {
		return fmt.Errorf("cannot back up the current firmware blob: %v", err)
	}
	return nil
}

// installFirmware copies the source blob over the installed one. This
// runs on every invocation so that a newer source blob takes effect.
func installFirmware(vbtFile string) error {
	logger.Noticef("Installing %s as %s...", vbtFile, dirs.VbtFirmwareFile)
	if err := os.MkdirAll(dirs.FirmwareDir, 0755); err != nil {
		return err
	}
	if err := osutil.CopyFile(vbtFile, dirs.VbtFirmwareFile, osutil.CopyFlagOverwrite|osutil.CopyFlagSync); err != nil {
		return err
	}
	// the mode of the copy follows the source blob, the firmware loader
	// needs the conventional one
	return os.Chmod(dirs.VbtFirmwareFile, 0644)
}

func updateMkinitcpio() error {
	// the configuration is read inside the root directory, so the
	// reference it carries must not have the root prefix
	ref := dirs.StripRootDir(dirs.VbtFirmwareFile)
	changed, err := mkinitcpio.NewConf(dirs.MkinitcpioConfFile).AddFile(ref)
	if err != nil {
		return fmt.Errorf("cannot update %s: %v", dirs.MkinitcpioConfFile, err)
	}
	if changed {
		logger.Noticef("Added %s to the FILES array of %s.", ref, dirs.MkinitcpioConfFile)
	} else {
		logger.Noticef("%s references %s already, leaving it alone.", dirs.MkinitcpioConfFile, ref)
	}
	return nil
}

func updateLimine() error {
	param := kernelParameter()
	defaults := limine.NewDefaults(dirs.LimineDefaultFile)
	changed, err := defaults.AddKernelParameter(param)
	if err != nil {
		return err
	}
	if changed {
		logger.Noticef("Added %s to the default kernel command line of %s.", param, dirs.LimineDefaultFile)
	} else {
		logger.Noticef("%s carries %s already, leaving it alone.", dirs.LimineDefaultFile, param)
	}

	if cmdline, err := defaults.KernelCmdline(); err == nil {
		logger.Debugf("kernel command line is now: %s", cmdline)
	}
	return nil
}
