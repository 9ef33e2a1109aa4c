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

package checkrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"
)

// JSONOption holds the per-rule options. They may be given as JSON on the
// command line or under a rule's options key in the YAML config.
type JSONOption struct {
	CallDepth    *int    `json:"call-depth,omitempty" yaml:"call-depth,omitempty"`
	MaxReportNum *int    `json:"max-report-num,omitempty" yaml:"max-report-num,omitempty"`
	Severity     *string `json:"severity,omitempty" yaml:"severity,omitempty"`
	// NoexceptFunctions names library functions trusted not to throw,
	// e.g. std::move.
	NoexceptFunctions []string `json:"noexcept-functions,omitempty" yaml:"noexcept-functions,omitempty"`
}

type CheckRule struct {
	Name        string     `yaml:"name"`
	JSONOptions JSONOption `yaml:"options"`
}

type config struct {
	Rules []CheckRule `yaml:"rules"`
}

func validate(o JSONOption) error {
	if o.CallDepth != nil && *o.CallDepth < 1 {
		return fmt.Errorf("call-depth must be at least 1, got %d", *o.CallDepth)
	}
	if o.MaxReportNum != nil && *o.MaxReportNum < 0 {
		return fmt.Errorf("max-report-num must not be negative, got %d", *o.MaxReportNum)
	}
	return nil
}

func MakeCheckRule(name string, jsonOptions string) (*CheckRule, error) {
	checkRule := &CheckRule{Name: name}
	if jsonOptions != "" {
		if err := json.Unmarshal([]byte(jsonOptions), &checkRule.JSONOptions); err != nil {
			return nil, err
		}
	}
	if err := validate(checkRule.JSONOptions); err != nil {
		return nil, fmt.Errorf("rule %s: %v", name, err)
	}
	return checkRule, nil
}

func MakeCheckRuleWithoutError(name string, jsonOptions string) *CheckRule {
	checkRule, err := MakeCheckRule(name, jsonOptions)
	if err != nil {
		glog.Fatalf("can not make CheckRule without error: error: %v", err)
	}
	return checkRule
}

// ParseConfig reads the rules list of a YAML config.
func ParseConfig(data []byte) ([]CheckRule, error) {
	var c config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("parse rule config: %v", err)
	}
	seen := make(map[string]bool)
	for _, rule := range c.Rules {
		if rule.Name == "" {
			return nil, fmt.Errorf("parse rule config: rule without a name")
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("parse rule config: rule %s listed twice", rule.Name)
		}
		seen[rule.Name] = true
		if err := validate(rule.JSONOptions); err != nil {
			return nil, fmt.Errorf("rule %s: %v", rule.Name, err)
		}
	}
	return c.Rules, nil
}

func ReadConfig(path string) ([]CheckRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule config: %v", err)
	}
	return ParseConfig(data)
}

// Update overrides the options that are set in newOption.
func (jsonOption *JSONOption) Update(newOption JSONOption) {
	if newOption.CallDepth != nil {
		jsonOption.CallDepth = newOption.CallDepth
	}
	if newOption.MaxReportNum != nil {
		jsonOption.MaxReportNum = newOption.MaxReportNum
	}
	if newOption.Severity != nil {
		jsonOption.Severity = newOption.Severity
	}
	if newOption.NoexceptFunctions != nil {
		jsonOption.NoexceptFunctions = newOption.NoexceptFunctions
	}
}
