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

package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/hhatto/gocloc"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/atomic"
	"naive.systems/exceptspec/cruleslib/filter"
)

// analysis stages
const (
	CC  int = iota // Collecting translation units
	AC             // Analysis check
	END
)

const (
	LOCFile      = "loc.nsa_metadata"
	ProgressFile = "progress.nsa_metadata"
	SeverityFile = "severity_stats.nsa_metadata"
)

var cppLangs = []string{"C++", "C++ Header", "C Header"}

type Progress struct {
	StageID   int       `json:"stage_id"`
	DoneRatio string    `json:"done_ratio"`
	StartedAt time.Time `json:"started_at"`
}

type SeverityCount struct {
	Error       int `json:"error"`
	Warning     int `json:"warning"`
	Style       int `json:"style"`
	Information int `json:"information"`
	Unknown     int `json:"unknown"`
}

// CountLines sums the lines of code of files that gocloc recognizes as C++
// and that no ignore pattern matches.
func CountLines(files []string, ignoreDirPatterns []string) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	for _, lang := range cppLangs {
		if _, exists := languages.Langs[lang]; exists {
			clocOpts.IncludeLangs[lang] = struct{}{}
		}
	}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze(files)
	if err != nil {
		return 0, fmt.Errorf("gocloc: %v", err)
	}
	sum := 0
	for _, file := range result.Files {
		matched, err := filter.MatchIgnoreDirPatterns(ignoreDirPatterns, file.Name)
		if err != nil {
			glog.Error(err)
			continue
		}
		if !matched {
			sum += int(file.Code)
		}
	}
	return sum, nil
}

func WriteLOC(resultDir string, linesCounter int) {
	path := filepath.Join(resultDir, LOCFile)
	if err := atomic.Write(path, []byte(strconv.Itoa(linesCounter))); err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func WriteProgress(resultDir string, stageID int, doneRatio string, startedAt time.Time) {
	// skip writing it if resultDir does not exist
	if _, err := os.Stat(resultDir); os.IsNotExist(err) {
		glog.Warningf("result dir %s does not exist", resultDir)
		return
	}
	path := filepath.Join(resultDir, ProgressFile)
	progress, err := json.Marshal(Progress{StageID: stageID, DoneRatio: doneRatio, StartedAt: startedAt})
	if err != nil {
		glog.Errorf("failed to marshal progress of stage %d: %v", stageID, err)
		return
	}
	if err := atomic.Write(path, progress); err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func CountSeverity(resultsList *pb.ResultsList) SeverityCount {
	var cnt SeverityCount
	for _, result := range resultsList.Results {
		switch result.Severity {
		case pb.SeverityError:
			cnt.Error++
		case pb.SeverityWarning:
			cnt.Warning++
		case pb.SeverityStyle:
			cnt.Style++
		case pb.SeverityInformation:
			cnt.Information++
		default:
			cnt.Unknown++
		}
	}
	return cnt
}

func CountSeverityAndWrite(resultsList *pb.ResultsList, resultDir string) {
	statsBytes, err := json.Marshal(CountSeverity(resultsList))
	if err != nil {
		glog.Errorf("json.Marshal: %v", err)
		return
	}
	statsFile := filepath.Join(resultDir, SeverityFile)
	if err := atomic.Write(statsFile, statsBytes); err != nil {
		glog.Errorf("failed to write to file %s: %v", statsFile, err)
	}
}
