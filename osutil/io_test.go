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

package osutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "gopkg.in/check.v1"

	"github.com/canonical/vbt-install/osutil"
	"github.com/canonical/vbt-install/testutil"
)

type AtomicWriteTestSuite struct{}

var _ = Suite(&AtomicWriteTestSuite{})

func (ts *AtomicWriteTestSuite) TestAtomicWriteFile(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	c.Assert(osutil.AtomicWriteFile(p, []byte("canary"), 0644, 0), IsNil)

	c.Check(p, testutil.FileEquals, "canary")

	// no files left behind!
	d, err := os.ReadDir(tmpdir)
	c.Assert(err, IsNil)
	c.Assert(len(d), Equals, 1)
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFilePermissions(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	c.Assert(osutil.AtomicWriteFile(p, []byte(""), 0600, 0), IsNil)

	st, err := os.Stat(p)
	c.Assert(err, IsNil)
	c.Assert(st.Mode()&os.ModePerm, Equals, os.FileMode(0600))
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFileOverwrite(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	c.Assert(os.WriteFile(p, []byte("hello"), 0644), IsNil)
	c.Assert(osutil.AtomicWriteFile(p, []byte("hi"), 0600, 0), IsNil)

	c.Check(p, testutil.FileEquals, "hi")
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFileNoFollow(c *C) {
	tmpdir := c.MkDir()

	target := filepath.Join(tmpdir, "target")
	symlink := filepath.Join(tmpdir, "symlink")
	c.Assert(os.Symlink(target, symlink), IsNil)

	c.Assert(osutil.AtomicWriteFile(symlink, []byte("hi"), 0600, 0), IsNil)

	// the symlink got replaced with a regular file
	st, err := os.Lstat(symlink)
	c.Assert(err, IsNil)
	c.Check(st.Mode()&os.ModeSymlink, Equals, os.FileMode(0))
	c.Check(symlink, testutil.FileEquals, "hi")
	c.Check(target, testutil.FileAbsent)
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFileFollow(c *C) {
	tmpdir := c.MkDir()

	target := filepath.Join(tmpdir, "target")
	symlink := filepath.Join(tmpdir, "symlink")
	c.Assert(os.Symlink(target, symlink), IsNil)

	c.Assert(osutil.AtomicWriteFile(symlink, []byte("hi"), 0600, osutil.AtomicWriteFollow), IsNil)

	// the symlink is still a symlink, the content went to the target
	st, err := os.Lstat(symlink)
	c.Assert(err, IsNil)
	c.Check(st.Mode()&os.ModeSymlink, Equals, os.ModeSymlink)
	c.Check(target, testutil.FileEquals, "hi")
}

func (ts *AtomicWriteTestSuite) TestAtomicWrite(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	c.Assert(osutil.AtomicWrite(p, strings.NewReader("hi hi hi"), 0644, 0), IsNil)

	c.Check(p, testutil.FileEquals, "hi hi hi")
}

func (ts *AtomicWriteTestSuite) TestAtomicFileUidGidMismatch(c *C) {
	p := filepath.Join(c.MkDir(), "foo")

	_, err := osutil.NewAtomicFile(p, 0644, 0, 1, -1)
	c.Check(err, ErrorMatches, "internal error: AtomicFile needs none or both of uid and gid set")
}

func (ts *AtomicWriteTestSuite) TestAtomicFileCancel(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	aw, err := osutil.NewAtomicFile(p, 0644, 0, -1, -1)
	c.Assert(err, IsNil)

	_, err = aw.Write([]byte("hello"))
	c.Assert(err, IsNil)

	c.Assert(aw.Cancel(), IsNil)

	// nothing left behind
	d, err := os.ReadDir(tmpdir)
	c.Assert(err, IsNil)
	c.Check(d, HasLen, 0)
}

func (ts *AtomicWriteTestSuite) TestAtomicFileCancelAfterFinalize(c *C) {
	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	aw, err := osutil.NewAtomicFile(p, 0644, 0, -1, -1)
	c.Assert(err, IsNil)

	c.Assert(aw.Finalize(), IsNil)
	c.Check(aw.Cancel(), Equals, osutil.ErrCannotCancel)

	c.Check(p, testutil.FilePresent)
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFileChown(c *C) {
	var chownCalled bool
	restore := osutil.MockChown(func(f *os.File, uid, gid int) error {
		c.Check(uid, Equals, 12)
		c.Check(gid, Equals, 34)
		chownCalled = true
		return nil
	})
	defer restore()

	p := filepath.Join(c.MkDir(), "foo")
	c.Assert(osutil.AtomicWriteFileChown(p, []byte("hi"), 0644, 0, 12, 34), IsNil)

	c.Check(p, testutil.FileEquals, "hi")
	c.Check(chownCalled, Equals, true)
}

func (ts *AtomicWriteTestSuite) TestAtomicWriteFileChownError(c *C) {
	restore := osutil.MockChown(func(*os.File, int, int) error {
		return errors.New("boom")
	})
	defer restore()

	tmpdir := c.MkDir()

	p := filepath.Join(tmpdir, "foo")
	err := osutil.AtomicWriteFileChown(p, []byte("hi"), 0644, 0, 12, 34)
	c.Check(err, ErrorMatches, "boom")

	// the temp file got cleaned up
	d, err := os.ReadDir(tmpdir)
	c.Assert(err, IsNil)
	c.Check(d, HasLen, 0)
}
