package compare

import (
	"fmt"

	"github.com/goccy/go-json"
)

// JSONFormatter writes a comparison set as JSON. Recommendations are always
// present as an array so consumers need not special-case null.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	out := *compSet
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if out.AlternativeResults == nil {
		out.AlternativeResults = []ComparisonResult{}
	}

	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(&out, "", "  ")
	} else {
		data, err = json.Marshal(&out)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode comparison %q: %w", compSet.BaseScenarioName, err)
	}
	return string(data), nil
}
