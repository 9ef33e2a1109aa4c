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
	"runtime"

	"naive.systems/exceptspec/cruleslib/checkrule"
)

type CheckOptions struct {
	JsonOption checkrule.JSONOption
	EnvOption  EnvOptions
}

type EnvOptions struct {
	ResultsDir        string
	SrcDir            string
	CompileCommands   string
	IgnoreDirPatterns ArrayFlags
	CheckProgress     bool
	Debug             bool
	NumWorkers        int32
	ParseMemoryKB     int
	Lang              string
	Charset           string
	CallDepth         int
	LogDir            string
}

func NewEnvOptionsFromShared(shared *SharedOptions, logDir string) *EnvOptions {
	numWorkers := shared.GetNumWorkers()
	if numWorkers <= 0 {
		numWorkers = int32(runtime.NumCPU())
	}
	return &EnvOptions{
		ResultsDir:        shared.GetResultsDir(),
		SrcDir:            shared.GetSrcDir(),
		CompileCommands:   shared.GetCompileCommands(),
		IgnoreDirPatterns: shared.GetIgnoreDirPatterns(),
		CheckProgress:     shared.GetCheckProgress(),
		Debug:             shared.GetDebugMode(),
		NumWorkers:        numWorkers,
		ParseMemoryKB:     shared.GetParseMemoryKB(),
		Lang:              shared.GetLang(),
		Charset:           shared.GetCharset(),
		CallDepth:         shared.GetCallDepth(),
		LogDir:            logDir,
	}
}

func MakeCheckOptions(jsonOption *checkrule.JSONOption, envOption *EnvOptions) CheckOptions {
	return CheckOptions{
		JsonOption: *jsonOption,
		EnvOption:  *envOption,
	}
}

// CallDepth is the rule option if set, else the command line value.
func (o *CheckOptions) CallDepth() int {
	if o.JsonOption.CallDepth != nil {
		return *o.JsonOption.CallDepth
	}
	if o.EnvOption.CallDepth > 0 {
		return o.EnvOption.CallDepth
	}
	return Defaults.CallDepth
}

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return "array flags"
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}
