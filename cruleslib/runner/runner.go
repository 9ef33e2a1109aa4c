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

package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/parser"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cpumem"
	"naive.systems/exceptspec/cruleslib/basic"
	"naive.systems/exceptspec/cruleslib/filter"
	"naive.systems/exceptspec/cruleslib/i18n"
	"naive.systems/exceptspec/cruleslib/options"
	"naive.systems/exceptspec/cruleslib/source"
	"naive.systems/exceptspec/cruleslib/stats"
)

type AnalyzeFunc func(db *symboldb.Database, opts *options.CheckOptions) (*pb.ResultsList, error)

// Rule is one enabled rule with its resolved options.
type Rule struct {
	Name    string
	Ruleset string
	Analyze AnalyzeFunc
	Opts    *options.CheckOptions
}

// The task for Runner to run in parallels. A task parses File once and runs
// every rule on it.
type AnalyzerTask struct {
	Id      int
	File    string
	Charset string
	Rules   []Rule
}

type analyzerResult struct {
	id          int
	file        string
	resultsList *pb.ResultsList
	err         error
}

// A goroutine workgroup to analyze translation units in parallel.
type ParaTaskRunner struct {
	ctx            context.Context
	cancel         context.CancelFunc
	showProgress   bool
	resultsDir     string
	workerWg       sync.WaitGroup
	collectorWg    sync.WaitGroup
	jobs_chan      chan AnalyzerTask
	results_chan   chan analyzerResult
	results        *pb.ResultsList
	errors         []error
	processPrinter *basic.CheckingProcessPrinter
	memory         *cpumem.Budget
}

// runRule turns a panic of the rule into an error so that the other rules
// and tasks go on.
func runRule(rule Rule, db *symboldb.Database) (results *pb.ResultsList, err error) {
	defer func() {
		if r := recover(); r != nil {
			glog.Error("Recovered in analyze: ", r, string(debug.Stack()))
			results = nil
			err = fmt.Errorf("panic in rule %s: %v", rule.Name, r)
		}
	}()
	return rule.Analyze(db, rule.Opts)
}

// modifyResult fills in the rule identity a rule left empty.
func modifyResult(results *pb.ResultsList, rule Rule) {
	for _, r := range results.Results {
		if r.RuleId == "" {
			r.RuleId = rule.Name
		}
		r.Ruleset = rule.Ruleset
	}
}

func (pt *ParaTaskRunner) analyze(j AnalyzerTask) (*pb.ResultsList, error) {
	src, err := source.ReadFile(j.File, j.Charset)
	if err != nil {
		return nil, err
	}
	kb := pt.memory.Acquire(cpumem.ParseCost(len(src)), j.File)
	defer pt.memory.Release(kb)
	db, err := parser.Parse(pt.ctx, j.File, src)
	if err != nil {
		return nil, err
	}
	all := &pb.ResultsList{}
	var failed []string
	var firstErr error
	for _, rule := range j.Rules {
		resultsList, err := runRule(rule, db)
		if err != nil {
			glog.Errorf("%s: %s got error %v", j.File, rule.Name, err)
			failed = append(failed, rule.Name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if resultsList == nil {
			continue
		}
		modifyResult(resultsList, rule)
		filter.DeleteSuppressedResults(resultsList, db.Comments)
		all.Results = append(all.Results, resultsList.Results...)
	}
	if firstErr != nil {
		return all, fmt.Errorf("%s: %d rule(s) failed %v: %v", j.File, len(failed), failed, firstErr)
	}
	return all, nil
}

func (pt *ParaTaskRunner) worker(jobs <-chan AnalyzerTask, results chan<- analyzerResult) {
	defer pt.workerWg.Done()
	for j := range jobs {
		if err := pt.ctx.Err(); err != nil {
			results <- analyzerResult{id: j.Id, file: j.File, err: fmt.Errorf("%s not analyzed: %v", j.File, err)}
			continue
		}
		if pt.showProgress {
			pt.processPrinter.StartAnalyzeTask(j.File)
		}
		resultsList, err := pt.analyze(j)
		results <- analyzerResult{id: j.Id, file: j.File, resultsList: resultsList, err: err}
		if pt.showProgress {
			percent := pt.processPrinter.FinishAnalyzeTask(j.File)
			stats.WriteProgress(pt.resultsDir, stats.AC, percent, pt.processPrinter.GetStartedAt())
		}
	}
}

// Create a new task runner and results collectors. A SIGINT cancels the
// context that is handed to the parser and stops the scheduling of tasks.
func NewParaTaskRunner(ctx context.Context, numWorkers int32, taskNums int, envOpts *options.EnvOptions) *ParaTaskRunner {
	printer := i18n.GetPrinter(envOpts.Lang)
	if numWorkers <= 0 {
		numWorkers = int32(runtime.NumCPU())
	}
	if envOpts.CheckProgress {
		basic.PrintfWithTimeStamp(printer.Sprintf(i18n.UseCPUs, numWorkers))
	}
	ctx, cancel := context.WithCancel(ctx)
	paraRunner := &ParaTaskRunner{
		ctx:            ctx,
		cancel:         cancel,
		showProgress:   envOpts.CheckProgress,
		resultsDir:     envOpts.ResultsDir,
		jobs_chan:      make(chan AnalyzerTask, numWorkers),
		results_chan:   make(chan analyzerResult, numWorkers),
		results:        &pb.ResultsList{},
		errors:         make([]error, taskNums),
		processPrinter: basic.NewCheckingProcessPrinter(taskNums, printer),
		memory:         cpumem.NewBudget(envOpts.ParseMemoryKB),
	}
	for w := 0; w < int(numWorkers); w++ {
		paraRunner.workerWg.Add(1)
		go paraRunner.worker(paraRunner.jobs_chan, paraRunner.results_chan)
	}

	// signal handler
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			if paraRunner.showProgress {
				basic.PrintfWithTimeStamp(printer.Sprintf(i18n.StopAnalysis))
			}
			glog.Warning("SIGINT received, stop analysis")
			cancel()
		case <-ctx.Done():
		}
	}()

	// collect results
	paraRunner.collectorWg.Add(1)
	go func() {
		defer paraRunner.collectorWg.Done()
		for job_result := range paraRunner.results_chan {
			if job_result.resultsList != nil {
				paraRunner.results.Results = append(paraRunner.results.Results, job_result.resultsList.Results...)
			}
			if job_result.err != nil {
				glog.Errorf("Analyze %v got error %v", job_result.file, job_result.err)
			}
			if job_result.id >= 0 && job_result.id < len(paraRunner.errors) {
				paraRunner.errors[job_result.id] = job_result.err
			}
		}
	}()
	return paraRunner
}

// Stopped reports whether the analysis was interrupted.
func (pt *ParaTaskRunner) Stopped() bool {
	return pt.ctx.Err() != nil
}

// Add a task to the task runner. It returns false once the analysis has
// been interrupted.
func (pt *ParaTaskRunner) AddTask(task AnalyzerTask) bool {
	if pt.Stopped() {
		return false
	}
	select {
	case pt.jobs_chan <- task:
		return true
	case <-pt.ctx.Done():
		return false
	}
}

// Wait until all the tasks workers and collectors are finished and all results are collected.
// Return the results in the order they were collected and the error of every task by id.
func (pt *ParaTaskRunner) CollectResultsAndErrors() (results *pb.ResultsList, errors []error) {
	close(pt.jobs_chan)
	pt.workerWg.Wait()
	close(pt.results_chan)
	pt.collectorWg.Wait()
	pt.cancel()
	return pt.results, pt.errors
}

// NonNilErrors drops the nil entries of a per task error list.
func NonNilErrors(errs []error) []error {
	var rtn []error
	for _, err := range errs {
		if err != nil {
			rtn = append(rtn, err)
		}
	}
	return rtn
}

// SortResult orders results by path, line and column. Results at the same
// location keep their relative order.
func SortResult(results *pb.ResultsList) *pb.ResultsList {
	slices.SortStableFunc(results.Results, func(a, b *pb.Result) bool {
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		return a.Column < b.Column
	})
	return results
}

// RemoveDup keeps the first of the results sharing path, line and message.
func RemoveDup(results *pb.ResultsList) *pb.ResultsList {
	set := pb.NewResultsSetFromList(results)
	return &set.ResultsList
}

func AddID(allResults *pb.ResultsList) {
	for i := 0; i < len(allResults.Results); i++ {
		id, err := uuid.NewRandom()
		if err != nil {
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		allResults.Results[i].Id = id.String()
	}
}
