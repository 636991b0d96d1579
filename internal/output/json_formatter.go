package output

import (
	"encoding/json"
)

// JSONFormatter serializes the report as pretty-printed JSON.
var JSONFormatter Formatter = FormatterFunc{ID: "json", F: formatJSON}

func formatJSON(report *Report) ([]byte, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
