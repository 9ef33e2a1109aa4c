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
	"testing"

	"github.com/google/go-cmp/cmp"

	"naive.systems/exceptspec/cruleslib/checkrule"
)

func TestSharedOptionsFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	shared := NewSharedOptions(fs)
	err := fs.Parse([]string{
		"-call_depth=2",
		"-ignore_dir=third_party/**",
		"-ignore_dir=**/gen/**",
		"-num_workers=3",
		"-lang=zh",
		"-parse_memory_kb=4096",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	env := NewEnvOptionsFromShared(shared, "/tmp/logs")
	if env.CallDepth != 2 || env.NumWorkers != 3 || env.Lang != "zh" || env.LogDir != "/tmp/logs" || env.ParseMemoryKB != 4096 {
		t.Errorf("unexpected env options %+v", env)
	}
	if diff := cmp.Diff(ArrayFlags{"third_party/**", "**/gen/**"}, env.IgnoreDirPatterns); diff != "" {
		t.Errorf("ignore_dir mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultNumWorkers(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	env := NewEnvOptionsFromShared(NewSharedOptions(fs), "")
	if env.NumWorkers <= 0 {
		t.Errorf("NumWorkers should default to the CPU count, got %d", env.NumWorkers)
	}
}

func TestCallDepthPrecedence(t *testing.T) {
	three := 3
	opts := MakeCheckOptions(&checkrule.JSONOption{}, &EnvOptions{CallDepth: 2})
	if got := opts.CallDepth(); got != 2 {
		t.Errorf("CallDepth() = %d, want the flag value 2", got)
	}
	opts.JsonOption.CallDepth = &three
	if got := opts.CallDepth(); got != 3 {
		t.Errorf("CallDepth() = %d, want the rule option 3", got)
	}
	opts = MakeCheckOptions(&checkrule.JSONOption{}, &EnvOptions{})
	if got := opts.CallDepth(); got != 1 {
		t.Errorf("CallDepth() = %d, want the default 1", got)
	}
}
