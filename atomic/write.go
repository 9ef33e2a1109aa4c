/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package atomic replaces output files in one rename so that readers of the
// results directory never see a half written file.
package atomic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const filePerm = 0644

// WriteFunc creates name through fill. The previous content of name is kept
// if fill fails.
func WriteFunc(name string, fill func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(name), ".tmp-*-"+filepath.Base(name))
	if err != nil {
		return fmt.Errorf("create temp file for %s: %v", name, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %v", name, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %v", tmp, err)
	}
	if err := f.Chmod(filePerm); err != nil {
		f.Close()
		return fmt.Errorf("chmod %s: %v", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, name); err != nil {
		return fmt.Errorf("rename %s to %s: %v", tmp, name, err)
	}
	return nil
}

func Write(name string, data []byte) error {
	return WriteFunc(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
