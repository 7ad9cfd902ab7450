package output

import (
	"encoding/json"

	"dnstool/propagation/internal/propagation"
)

func RenderJSON(report *propagation.Report) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
