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

package options

import (
	"flag"
)

type SharedOptions struct {
	CallDepth         *int
	Charset           *string
	CheckProgress     *bool
	CompileCommands   *string
	Config            *string
	DebugMode         *bool
	Diff              *string
	IgnoreDirPatterns ArrayFlags
	Lang              *string
	NumWorkers        *int
	ParseMemoryKB     *int
	ResultsDir        *string
	ShowJsonResults   *bool
	ShowLineNumber    *bool
	ShowResults       *bool
	SrcDir            *string
}

func (s SharedOptions) GetCallDepth() int {
	return *s.CallDepth
}

func (s SharedOptions) GetCharset() string {
	return *s.Charset
}

func (s SharedOptions) GetCheckProgress() bool {
	return *s.CheckProgress
}

func (s SharedOptions) GetCompileCommands() string {
	return *s.CompileCommands
}

func (s SharedOptions) GetConfig() string {
	return *s.Config
}

func (s SharedOptions) GetDebugMode() bool {
	return *s.DebugMode
}

func (s SharedOptions) GetDiff() string {
	return *s.Diff
}

func (s SharedOptions) GetIgnoreDirPatterns() ArrayFlags {
	return s.IgnoreDirPatterns
}

func (s SharedOptions) GetLang() string {
	return *s.Lang
}

func (s SharedOptions) GetNumWorkers() int32 {
	return int32(*s.NumWorkers)
}

func (s SharedOptions) GetParseMemoryKB() int {
	return *s.ParseMemoryKB
}

func (s SharedOptions) GetResultsDir() string {
	return *s.ResultsDir
}

func (s SharedOptions) GetShowJsonResults() bool {
	return *s.ShowJsonResults
}

func (s SharedOptions) GetShowLineNumber() bool {
	return *s.ShowLineNumber
}

func (s SharedOptions) GetShowResults() bool {
	return *s.ShowResults
}

func (s SharedOptions) GetSrcDir() string {
	return *s.SrcDir
}

func (s SharedOptions) SetSrcDir(srcdir string) {
	*s.SrcDir = srcdir
}

type DefaultOptionValues struct {
	CallDepth         int
	Charset           string
	CheckProgress     bool
	CompileCommands   string
	Config            string
	DebugMode         bool
	Diff              string
	IgnoreDirPatterns ArrayFlags
	Lang              string
	NumWorkers        int
	ParseMemoryKB     int
	ResultsDir        string
	ShowJsonResults   bool
	ShowLineNumber    bool
	ShowResults       bool
	SrcDir            string
}

var Defaults = DefaultOptionValues{
	CallDepth:         1,
	Charset:           "utf-8",
	CheckProgress:     false,
	CompileCommands:   "",
	Config:            "",
	DebugMode:         false,
	Diff:              "",
	IgnoreDirPatterns: []string{},
	Lang:              "en",
	NumWorkers:        0,
	ParseMemoryKB:     0,
	ResultsDir:        "/output",
	ShowJsonResults:   true,
	ShowLineNumber:    true,
	ShowResults:       false,
	SrcDir:            "/src",
}

// NewSharedOptions registers the flags on fs. Pass flag.CommandLine from
// main.
func NewSharedOptions(fs *flag.FlagSet) *SharedOptions {
	option := &SharedOptions{}

	option.CallDepth = fs.Int("call_depth", Defaults.CallDepth, "How many levels of callees are analyzed before trusting their exception specification")
	option.Charset = fs.String("charset", Defaults.Charset, "Character set of the source files, e.g. gbk")
	option.CheckProgress = fs.Bool("check_progress", Defaults.CheckProgress, "Show the checking progress")
	option.CompileCommands = fs.String("compile_commands", Defaults.CompileCommands, "Path of compile_commands.json listing the translation units")
	option.Config = fs.String("config", Defaults.Config, "YAML file listing the enabled rules and their options")
	option.DebugMode = fs.Bool("debug_mode", Defaults.DebugMode, "Whether to display error information")
	option.Diff = fs.String("diff", Defaults.Diff, "Unified diff taken in -src_dir. Only results on the lines it adds are reported")
	option.Lang = fs.String("lang", Defaults.Lang, "Language of the report messages. Support en and zh")
	option.NumWorkers = fs.Int("num_workers", Defaults.NumWorkers, "Number of translation units analyzed in parallel. 0 means the number of CPUs")
	option.ParseMemoryKB = fs.Int("parse_memory_kb", Defaults.ParseMemoryKB, "Memory in KB shared by the syntax trees held at the same time. 0 means unlimited")
	option.ResultsDir = fs.String("results_dir", Defaults.ResultsDir, "Absolute path to the directory of results files")
	option.ShowJsonResults = fs.Bool("json_results", Defaults.ShowJsonResults, "Whether to output results in JSON format")
	option.ShowLineNumber = fs.Bool("show_line_number", Defaults.ShowLineNumber, "Count lines of code and write them to the metadata")
	option.ShowResults = fs.Bool("show_results", Defaults.ShowResults, "Show results after the analysis")
	option.SrcDir = fs.String("src_dir", Defaults.SrcDir, "Absolute path to the directory of code files")

	option.IgnoreDirPatterns = append(ArrayFlags(nil), Defaults.IgnoreDirPatterns...)
	fs.Var(&option.IgnoreDirPatterns, "ignore_dir", "Shell file name pattern to a directory that will be ignored")

	return option
}
