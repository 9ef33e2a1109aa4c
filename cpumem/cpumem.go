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

// Package cpumem bounds the memory held by syntax trees that are alive at the
// same time.
package cpumem

import (
	"sync"
	"time"

	"github.com/golang/glog"
	"naive.systems/exceptspec/cruleslib/basic"
)

// ParseCostFactor estimates the bytes of syntax tree and symbol database
// built per byte of source.
const ParseCostFactor = 16

// Budget is a counting semaphore over kilobytes of memory.
type Budget struct {
	lock   sync.Mutex
	cond   *sync.Cond
	remain int
	total  int
}

// NewBudget returns nil for a non-positive total, which means unlimited.
// Methods of a nil *Budget do nothing.
func NewBudget(totalKB int) *Budget {
	if totalKB <= 0 {
		return nil
	}
	b := &Budget{remain: totalKB, total: totalKB}
	b.cond = sync.NewCond(&b.lock)
	return b
}

// ParseCost is the estimated memory in KB needed to analyze a source of
// size bytes.
func ParseCost(size int) int {
	return size*ParseCostFactor/1024 + 1
}

// Acquire blocks until kb is available and returns the amount actually
// taken, to be passed to Release. A request above the total is clamped so
// that it runs alone instead of waiting forever.
func (b *Budget) Acquire(kb int, taskName string) int {
	if b == nil {
		return 0
	}
	if kb > b.total {
		glog.Warningf("%s requires %d KB memory, but total %d KB available", taskName, kb, b.total)
		kb = b.total
	}
	start := time.Now()
	b.lock.Lock()
	for b.remain < kb {
		b.cond.Wait()
	}
	b.remain -= kb
	b.lock.Unlock()
	glog.V(1).Infof("%s waited for [%s] to acquire %d KB", taskName, basic.FormatTimeDuration(time.Since(start)), kb)
	return kb
}

func (b *Budget) Release(kb int) {
	if b == nil {
		return
	}
	b.lock.Lock()
	b.remain += kb
	b.lock.Unlock()
	b.cond.Broadcast()
}

func (b *Budget) Remain() int {
	if b == nil {
		return 0
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.remain
}
