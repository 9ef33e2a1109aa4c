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

// Command exceptspec reports C++ functions that could be declared noexcept
// or const.
//
//	exceptspec [flags] [source files...]
//
// Without source files the translation units come from -compile_commands,
// or from compile_commands.json under -src_dir.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"naive.systems/exceptspec/analyzer"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cruleslib/basic"
	"naive.systems/exceptspec/cruleslib/checkrule"
	"naive.systems/exceptspec/cruleslib/compilecommand"
	"naive.systems/exceptspec/cruleslib/filter"
	"naive.systems/exceptspec/cruleslib/i18n"
	"naive.systems/exceptspec/cruleslib/options"
	"naive.systems/exceptspec/cruleslib/runner"
	"naive.systems/exceptspec/cruleslib/stats"
	"naive.systems/exceptspec/diff"
	rules "naive.systems/exceptspec/rules/analyzer"
)

// collectFiles lists the translation units to analyze. Relative arguments
// are taken relative to srcDir.
func collectFiles(args []string, srcDir, compileCommandsPath string, ignoreDirPatterns []string) ([]string, error) {
	if len(args) == 0 {
		if compileCommandsPath == "" {
			compileCommandsPath = filepath.Join(srcDir, compilecommand.CCJson)
		}
		return compilecommand.ReadSources(compileCommandsPath, ignoreDirPatterns)
	}
	seen := make(map[string]bool)
	var files []string
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(srcDir, path)
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		ignored, err := filter.MatchIgnoreDirPatterns(ignoreDirPatterns, path)
		if err != nil {
			return nil, err
		}
		if !ignored {
			files = append(files, path)
		}
	}
	return files, nil
}

func readCheckRules(configPath string) ([]checkrule.CheckRule, error) {
	if configPath == "" {
		return rules.DefaultCheckRules(), nil
	}
	return checkrule.ReadConfig(configPath)
}

func writeOutputs(allResults *pb.ResultsList, sharedOptions *options.SharedOptions) error {
	resultsDir := sharedOptions.GetResultsDir()
	for _, name := range []string{analyzer.ResultsFile, analyzer.ResultsWithSuffixFile} {
		if err := analyzer.WriteResults(allResults, filepath.Join(resultsDir, name)); err != nil {
			return err
		}
	}
	if sharedOptions.GetShowJsonResults() {
		if err := analyzer.WriteJsonResults(allResults, filepath.Join(resultsDir, analyzer.JsonResultsFile)); err != nil {
			return err
		}
	}
	// count results by severity and save stats to severity_stats.nsa_metadata
	stats.CountSeverityAndWrite(allResults, resultsDir)
	return nil
}

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine)
	flag.Parse()
	defer glog.Flush()

	// Do not call any logging functions of glog before this part.
	logDir := flag.Lookup("log_dir")
	if logDir.Value.String() == "" {
		err := flag.Set("log_dir", filepath.Join(sharedOptions.GetResultsDir(), "logs"))
		if err != nil {
			glog.Fatalf("failed to set default log_dir: %v", err)
		}
	}
	if err := basic.CreateDir(logDir.Value.String()); err != nil {
		glog.Fatalf("failed to create log dir: %v", err)
	}
	if !sharedOptions.GetDebugMode() {
		err := flag.Set("stderrthreshold", "FATAL")
		if err != nil {
			glog.Fatalf("failed to set default stderrthreshold: %v", err)
		}
	}

	if !i18n.Supported(sharedOptions.GetLang()) {
		glog.Fatalf("unsupported -lang %s, use en or zh", sharedOptions.GetLang())
	}
	printer := i18n.GetPrinter(sharedOptions.GetLang())
	if err := basic.CreateDir(sharedOptions.GetResultsDir()); err != nil {
		glog.Fatalf("failed to create result dir: %v", err)
	}

	start := time.Now()
	if sharedOptions.GetCheckProgress() {
		stats.WriteProgress(sharedOptions.GetResultsDir(), stats.CC, "0%", start)
	}

	checkRules, err := readCheckRules(sharedOptions.GetConfig())
	if err != nil {
		glog.Fatalf("failed to read check rules: %v", err)
	}
	glog.Info("checkRules: ", checkRules)

	files, err := collectFiles(flag.Args(), sharedOptions.GetSrcDir(), sharedOptions.GetCompileCommands(), sharedOptions.GetIgnoreDirPatterns())
	if err != nil {
		glog.Fatalf("failed to collect source files: %v", err)
	}
	if len(files) == 0 {
		basic.PrintfWithTimeStamp(printer.Sprintf(i18n.NoTranslationUnits))
	}
	glog.Infof("%d translation unit(s) to analyze", len(files))

	if sharedOptions.GetShowLineNumber() {
		loc, err := stats.CountLines(files, sharedOptions.GetIgnoreDirPatterns())
		if err != nil {
			glog.Errorf("stats.CountLines: %v", err)
		} else {
			stats.WriteLOC(sharedOptions.GetResultsDir(), loc)
		}
	}

	envOptions := options.NewEnvOptionsFromShared(sharedOptions, logDir.Value.String())
	if sharedOptions.GetCheckProgress() {
		stats.WriteProgress(envOptions.ResultsDir, stats.AC, "0%", start)
	}
	allResults, errs := rules.Run(context.Background(), checkRules, files, envOptions)
	for _, err := range errs {
		glog.Errorf("errors occur while analyzing: %v", err)
	}

	if sharedOptions.GetDiff() != "" {
		patch, err := diff.ReadFile(sharedOptions.GetDiff())
		if err != nil {
			glog.Fatalf("failed to read diff: %v", err)
		}
		allResults = diff.FilterResults(allResults, patch, sharedOptions.GetSrcDir())
	}
	runner.AddID(allResults)
	if err := writeOutputs(allResults, sharedOptions); err != nil {
		glog.Fatal(err)
	}
	glog.Infof("All results have been written to %s (%d in total)", sharedOptions.GetResultsDir(), len(allResults.Results))
	basic.PrintfWithTimeStamp(printer.Sprintf(i18n.AnalysisFinished, len(allResults.Results), len(files)))

	if sharedOptions.GetShowResults() {
		analyzer.PrintResults(os.Stdout, allResults, sharedOptions.GetCharset(), true, false)
	}

	if sharedOptions.GetCheckProgress() {
		stats.WriteProgress(envOptions.ResultsDir, stats.END, "100%", start)
		basic.PrintfWithTimeStamp(printer.Sprintf(i18n.TotalTime, basic.FormatTimeDuration(time.Since(start))))
	}

	// tar logs folder
	glog.Flush()
	err = basic.TarFile(logDir.Value.String(), filepath.Join(sharedOptions.GetResultsDir(), "logs.tar.gz"))
	if err != nil {
		glog.Errorf("failed to compress log files: %v", err)
	}
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%d error(s) during analysis, see %s\n", len(errs), logDir.Value.String())
	}
}
