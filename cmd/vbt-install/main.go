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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/canonical/vbt-install/i18n"
	"github.com/canonical/vbt-install/install"
	"github.com/canonical/vbt-install/logger"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	opts   struct{}
	parser *flags.Parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PassAfterNonOption)

	osGeteuid    = os.Geteuid
	osExecutable = os.Executable
)

func init() {
	err := logger.SimpleSetup()
	if err != nil {
		fmt.Fprintf(Stderr, "WARNING: failed to activate logging: %v\n", err)
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(Stdout)
			return
		}
		fmt.Fprintf(Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := parseArgs(args); err != nil {
		return err
	}

	if osGeteuid() != 0 {
		return errors.New(i18n.G("vbt-install must be run as root"))
	}

	vbtFile, err := sourceBlob()
	if err != nil {
		return err
	}

	return install.Run(vbtFile)
}

func parseArgs(args []string) error {
	parser.ShortDescription = i18n.G("Install the patched VBT firmware override")
	parser.LongDescription = i18n.G(`
vbt-install installs the VBT firmware override shipped right next to it
and wires it into early boot: the blob is embedded into the initramfs
via mkinitcpio and activated on the kernel command line of the limine
boot entries.
`)

	extra, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(extra) > 0 {
		return errors.New(i18n.G("too many arguments for command"))
	}
	return nil
}

// sourceBlob locates the firmware blob that ships next to the
// executable.
func sourceBlob() (string, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("cannot locate the vbt-install executable: %v", err)
	}
	return filepath.Join(filepath.Dir(exe), "vbt.bin"), nil
}
