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

/*
This package should not import the rules or the runner to avoid recursive
import.
*/
package basic

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/exceptspec/cruleslib/i18n"
)

func PrintfWithTimeStamp(format string, arg ...any) {
	prefix := fmt.Sprintf("%v ", time.Now().Format("2006-01-02 15:04:05"))
	message := fmt.Sprintf(prefix+format, arg...)
	fmt.Println(message)
	glog.Info(message)
}

func GetPercentString(v1, v2 int) string {
	if v2 <= 0 {
		return "100%"
	}
	return fmt.Sprintf("%d%%", v1*100/v2)
}

// FormatTimeDuration prints d in seconds with at most millisecond precision,
// e.g. 2s or 1.25s.
func FormatTimeDuration(d time.Duration) string {
	s := d / time.Second
	ms := (d % time.Second) / time.Millisecond
	if ms == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%03d", s, ms), "0") + "s"
}

// CheckingProcessPrinter prints the progress of the per file tasks. It is
// safe for concurrent use.
type CheckingProcessPrinter struct {
	mutex                sync.Mutex
	printer              *message.Printer
	startedAt            time.Time
	timeElapsed          map[string]time.Time
	startAnalyzeTaskNum  int
	finishAnalyzeTaskNum int
	totalTaskNum         int
}

func NewCheckingProcessPrinter(totalTaskNum int, printer *message.Printer) *CheckingProcessPrinter {
	return &CheckingProcessPrinter{
		printer:      printer,
		totalTaskNum: totalTaskNum,
		timeElapsed:  make(map[string]time.Time),
		startedAt:    time.Now(),
	}
}

// Called before a file is parsed
func (c *CheckingProcessPrinter) StartAnalyzeTask(file string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.startAnalyzeTaskNum++
	PrintfWithTimeStamp(c.printer.Sprintf(i18n.AnalyzingFile, file, c.startAnalyzeTaskNum, c.totalTaskNum))
	c.timeElapsed[file] = time.Now()
}

// Called after every rule has run on a file. Returns the overall progress.
func (c *CheckingProcessPrinter) FinishAnalyzeTask(file string) string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	elapsed := time.Since(c.timeElapsed[file])
	delete(c.timeElapsed, file)
	c.finishAnalyzeTaskNum++
	percent := GetPercentString(c.finishAnalyzeTaskNum, c.totalTaskNum)
	PrintfWithTimeStamp(c.printer.Sprintf(i18n.FileAnalyzed, file, percent, c.finishAnalyzeTaskNum, c.totalTaskNum, FormatTimeDuration(elapsed)))
	return percent
}

func (c *CheckingProcessPrinter) GetPercentString() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return GetPercentString(c.finishAnalyzeTaskNum, c.totalTaskNum)
}

func (c *CheckingProcessPrinter) GetStartedAt() time.Time {
	return c.startedAt
}

// CreateDir creates dir and its parents. An existing directory is fine.
func CreateDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %v", dir, err)
	}
	return nil
}

// TarFile writes srcDir as a gzipped tarball to fileName. Entry names start
// with the base name of srcDir.
func TarFile(srcDir string, fileName string) error {
	fw, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("create %s: %v", fileName, err)
	}
	defer fw.Close()
	gw := gzip.NewWriter(fw)
	defer gw.Close()
	tw := tar.NewWriter(gw)
	defer tw.Close()
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("tar header of %s: %v", path, err)
		}
		hdr.Name, err = filepath.Rel(filepath.Dir(srcDir), path)
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write header of %s: %v", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		fr, err := os.Open(path)
		if err != nil {
			glog.Errorf("open %s: %v", path, err)
			return nil
		}
		defer fr.Close()
		if _, err := io.CopyN(tw, fr, info.Size()); err != nil {
			return fmt.Errorf("copy %s: %v", path, err)
		}
		return nil
	})
}
