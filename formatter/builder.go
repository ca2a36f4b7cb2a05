package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/gnolang/rxgen/generator"
	"github.com/gnolang/rxgen/pattern"
)

const tabWidth = 8

// source name shown after the arrow
const patternName = "pattern"

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// errorFormatter is the interface that wraps the ErrorTemplate method.
// Implementations render one class of error.
type errorFormatter interface {
	ErrorTemplate() string
}

// ErrorData is the input of an error template.
type ErrorData struct {
	Kind        string
	Pattern     string
	Message     string
	Note        string
	HasSpan     bool
	Column      int
	StartColumn int
	EndColumn   int
	Padding     string
}

// FormatError renders err against the pattern it came from. Lexer, parser
// and generator errors get a snippet with the offending span underlined;
// any other error is rendered as a single line.
func FormatError(source string, err error) string {
	if err == nil {
		return ""
	}

	var (
		patErr *pattern.Error
		genErr *generator.Error
		data   ErrorData
		f      errorFormatter
	)
	switch {
	case errors.As(err, &patErr):
		data = spanData(patErr.Kind.String(), source, patErr.Message, patErr.Position, patErr.End)
		f = &PatternErrorFormatter{}
	case errors.As(err, &genErr):
		data = spanData(genErr.Kind.String(), source, genErr.Message, genErr.Position, genErr.Position+1)
		data.Note = generationNote(genErr.Kind)
		f = &GenerationErrorFormatter{}
	default:
		return errorStyle.Sprint("error: ") + messageStyle.Sprintf("%s\n", err)
	}

	return buildError(data, f)
}

func spanData(kind, source, message string, start, end int) ErrorData {
	data := ErrorData{
		Kind:    kind,
		Pattern: source,
		Message: message,
		Padding: "  ",
	}
	if start < 0 || start > len(source) {
		return data
	}
	if end > len(source)+1 {
		end = len(source) + 1
	}
	data.HasSpan = true
	data.StartColumn = visualColumn(source, start)
	data.EndColumn = visualColumn(source, end)
	if data.EndColumn <= data.StartColumn {
		data.EndColumn = data.StartColumn + 1
	}
	data.Column = utf8.RuneCountInString(source[:start]) + 1
	return data
}

func buildError(data ErrorData, formatter errorFormatter) string {
	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             snippet,
		"underlineAndMessage": underlineAndMessage,
		"message":             message,
		"note":                note,
	}

	tmpl := template.Must(template.New("error").Funcs(funcMap).Parse(formatter.ErrorTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting error: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(kind string, column int, hasSpan bool) string {
	endString := errorStyle.Sprint("error: ")
	endString += ruleStyle.Sprintf("%s\n", kind)
	endString += lineStyle.Sprint(" --> ")
	if hasSpan {
		endString += fileStyle.Sprintf("%s:1:%d\n", patternName, column)
	} else {
		endString += fileStyle.Sprintf("%s\n", patternName)
	}
	return endString
}

func snippet(source string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	endString += lineStyle.Sprint("1 | ")
	endString += expandTabs(source) + "\n"
	return endString
}

func underlineAndMessage(msg string, padding string, startColumn int, endColumn int) string {
	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat(" ", startColumn)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", endColumn-startColumn))
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)
	return endString
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(n string) string {
	if n == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", n)
}

func generationNote(kind generator.Kind) string {
	switch kind {
	case generator.EmptyAlphabet:
		return "widen the alphabet or drop the negation"
	case generator.InvalidQuantifierBounds:
		return "raise unbounded_repeat_cap or lower the quantifier minimum"
	default:
		return ""
	}
}

// visualColumn returns the display width of source[:offset], taking into
// account tab characters.
func visualColumn(source string, offset int) int {
	if offset > len(source) {
		return visualColumn(source, len(source)) + offset - len(source)
	}
	col := 0
	for _, ch := range source[:offset] {
		if ch == '\t' {
			col += tabWidth - (col % tabWidth)
		} else {
			col++
		}
	}
	return col
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, ch := range s {
		if ch == '\t' {
			n := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(ch)
		col++
	}
	return b.String()
}
