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

package proto

// resultKey identifies a diagnostic independently of the rule that found it.
// Two rule groups that flag the same function with the same message produce
// one result; different messages on the same line are kept apart.
type resultKey struct {
	path         string
	lineNumber   int32
	errorMessage string
}

func keyOf(r *Result) resultKey {
	return resultKey{
		path:         r.Path,
		lineNumber:   r.LineNumber,
		errorMessage: r.ErrorMessage,
	}
}

// ResultsSet is an insertion ordered set of Results. The first Result added
// for a key wins.
type ResultsSet struct {
	ResultsList
	stored map[resultKey]struct{}
}

func NewResultsSet() *ResultsSet {
	return &ResultsSet{stored: make(map[resultKey]struct{})}
}

func NewResultsSetFromList(list *ResultsList) *ResultsSet {
	set := NewResultsSet()
	set.AddList(list)
	return set
}

// Add reports whether r was new.
func (rs *ResultsSet) Add(r *Result) bool {
	key := keyOf(r)
	if _, reported := rs.stored[key]; reported {
		return false
	}
	rs.stored[key] = struct{}{}
	rs.Results = append(rs.Results, r)
	return true
}

func (rs *ResultsSet) AddList(list *ResultsList) {
	if list == nil {
		return
	}
	for _, r := range list.Results {
		rs.Add(r)
	}
}

func (rs *ResultsSet) Contains(r *Result) bool {
	_, ok := rs.stored[keyOf(r)]
	return ok
}

func (rs *ResultsSet) Len() int {
	return len(rs.Results)
}
