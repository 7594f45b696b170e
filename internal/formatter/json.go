package formatter

import (
	"encoding/json"
)

// jsonFormatter formats answers as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// AnswerOutput is the JSON shape of a rendered answer
type AnswerOutput struct {
	Query        string   `json:"query"`
	AnswerText   string   `json:"answer_text"`
	ItemName     string   `json:"item_name,omitempty"`
	CommonThemes []string `json:"common_themes,omitempty"`
	Parsed       bool     `json:"parsed"`
	Retrieved    []string `json:"retrieved,omitempty"`
	ElapsedMS    int64    `json:"elapsed_ms"`
}

func (f *jsonFormatter) Format(result *Result) ([]byte, error) {
	output := &AnswerOutput{
		Query:        result.Query,
		AnswerText:   result.Answer.Text,
		ItemName:     result.Answer.ItemName,
		CommonThemes: result.Answer.CommonThemes,
		Parsed:       result.Answer.Parsed,
		Retrieved:    result.Answer.Retrieved,
		ElapsedMS:    result.Answer.Elapsed.Milliseconds(),
	}

	return json.MarshalIndent(output, "", "  ")
}
