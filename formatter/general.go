package formatter

type PatternErrorFormatter struct{}

func (f *PatternErrorFormatter) ErrorTemplate() string {
	return `{{header .Kind .Column .HasSpan -}}
{{snippet .Pattern .Padding -}}
{{underlineAndMessage .Message .Padding .StartColumn .EndColumn}}`
}

type GenerationErrorFormatter struct{}

func (f *GenerationErrorFormatter) ErrorTemplate() string {
	return `{{header .Kind .Column .HasSpan -}}
{{- if .HasSpan }}
{{- snippet .Pattern .Padding -}}
{{underlineAndMessage .Message .Padding .StartColumn .EndColumn}}
{{- else }}
{{- message .Message .Padding }}
{{- end }}
{{- if .Note }}
{{- note .Note }}
{{- end }}`
}
