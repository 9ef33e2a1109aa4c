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

package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var languageMap = map[string]language.Tag{"en": language.English, "zh": language.Chinese}

// Message keys. Rules format them through a Printer so that the report
// follows -lang.
const (
	ShallBeNoexcept    = "The function \"%s\" shall be specified noexcept."
	ShallBeConst       = "The function \"%s\" shall be specified const."
	SharedPtrByRef     = "Shared_ptr shall not be passed to a function by reference."
	InvocableAsArg     = "Invocable \"%s\" shall not be an argument to \"%s\" function/method/constructor. Only literals or variables are allowed."
	UseCPUs            = "Use %d CPU(s)"
	AnalyzingFile      = "Analyzing %s (%d/%d)"
	AnalysisFinished   = "Analysis finished: %d result(s) in %d file(s)"
	StopAnalysis       = "Ctrl C Pressed. Stop analysis"
	NoTranslationUnits = "No source files to analyze"
	FileAnalyzed       = "Analysis of %s completed (%s, %d/%d) [%s]"
	TotalTime          = "Total time for analysis: %s"
	ResultsWritten     = "%d result(s) written to %s"
)

func init() {
	for key, msg := range map[string]string{
		ShallBeNoexcept:    "函数 \"%s\" 应当声明为 noexcept。",
		ShallBeConst:       "函数 \"%s\" 应当声明为 const。",
		SharedPtrByRef:     "不得以引用方式向函数传递 shared_ptr。",
		InvocableAsArg:     "可调用对象 \"%s\" 不得作为 \"%s\" 函数/方法/构造函数的参数。只允许使用字面量或变量。",
		UseCPUs:            "使用 %d 个 CPU",
		AnalyzingFile:      "正在分析 %s (%d/%d)",
		AnalysisFinished:   "分析完成：共 %d 个结果，涉及 %d 个文件",
		StopAnalysis:       "已按下 Ctrl C，停止分析",
		NoTranslationUnits: "没有需要分析的源文件",
		FileAnalyzed:       "%s 分析完成 (%s, %d/%d) [%s]",
		TotalTime:          "分析总用时：%s",
		ResultsWritten:     "%d 个结果已写入 %s",
	} {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			panic(err)
		}
	}
}

// GetPrinter returns an English printer for unknown languages.
func GetPrinter(lang string) *message.Printer {
	langTag, exist := languageMap[lang]
	if !exist {
		langTag = language.English
	}
	return message.NewPrinter(langTag)
}

func Supported(lang string) bool {
	_, ok := languageMap[lang]
	return ok
}
