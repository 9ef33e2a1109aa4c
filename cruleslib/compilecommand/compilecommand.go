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

package compilecommand

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"golang.org/x/exp/slices"
	"naive.systems/exceptspec/cruleslib/filter"
)

const CCJson = "compile_commands.json"

type CompileCommand struct {
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	File      string   `json:"file"`
	Directory string   `json:"directory"`
	Output    string   `json:"output,omitempty"`
}

func ReadCompileCommandsFromFile(compileCommandsPath string) ([]CompileCommand, error) {
	content, err := os.ReadFile(compileCommandsPath)
	if err != nil {
		return nil, fmt.Errorf("read compilation database: %v", err)
	}
	commands := []CompileCommand{}
	if err := json.Unmarshal(content, &commands); err != nil {
		return nil, fmt.Errorf("parse %s: %v", compileCommandsPath, err)
	}
	return commands, nil
}

// GetArgs returns Arguments, or Command split the way a shell would.
func (cc CompileCommand) GetArgs() ([]string, error) {
	if len(cc.Arguments) > 0 {
		return cc.Arguments, nil
	}
	args, err := shlex.Split(cc.Command)
	if err != nil {
		return nil, fmt.Errorf("shlex.Split(%q): %v", cc.Command, err)
	}
	return args, nil
}

// SourcePath is File resolved against Directory.
func (cc CompileCommand) SourcePath() string {
	if filepath.IsAbs(cc.File) {
		return filepath.Clean(cc.File)
	}
	return filepath.Join(cc.Directory, cc.File)
}

// IsCpp reports whether the entry compiles C++. An explicit -x option wins
// over the file extension.
func (cc CompileCommand) IsCpp() bool {
	args, err := cc.GetArgs()
	if err != nil {
		glog.Warning(err)
	}
	for i, arg := range args {
		var lang string
		switch {
		case arg == "-x" && i+1 < len(args):
			lang = args[i+1]
		case strings.HasPrefix(arg, "-x") && len(arg) > 2:
			lang = arg[2:]
		default:
			continue
		}
		return strings.HasPrefix(lang, "c++")
	}
	return filter.IsCppFile(cc.File) || filter.IsHeaderFile(cc.File)
}

// Sources lists the C++ translation units of commands once each, in sorted
// order, skipping those matched by ignoreDirPatterns.
func Sources(commands []CompileCommand, ignoreDirPatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var sources []string
	for _, cc := range commands {
		path := cc.SourcePath()
		if seen[path] {
			continue
		}
		seen[path] = true
		if !cc.IsCpp() {
			glog.V(1).Infof("%s is not C++, skipped", path)
			continue
		}
		ignored, err := filter.MatchIgnoreDirPatterns(ignoreDirPatterns, path)
		if err != nil {
			return nil, err
		}
		if !ignored {
			sources = append(sources, path)
		}
	}
	slices.Sort(sources)
	return sources, nil
}

// ReadSources combines ReadCompileCommandsFromFile and Sources.
func ReadSources(compileCommandsPath string, ignoreDirPatterns []string) ([]string, error) {
	commands, err := ReadCompileCommandsFromFile(compileCommandsPath)
	if err != nil {
		return nil, err
	}
	return Sources(commands, ignoreDirPatterns)
}
