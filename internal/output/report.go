package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// Render formats results with the named formatter.
func Render(results *domain.ScenarioComparison, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(results)
}

// GenerateReport writes results to a timestamped file and returns its name.
// "all" writes the verbose console report and the detailed CSV.
func GenerateReport(results *domain.ScenarioComparison, format string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, name := range []string{"console", "detailed-csv"} {
			fn, err := WriteFormatted(GetFormatterByName(name), results, ExtensionFor(name))
			if err != nil {
				return files, err
			}
			files = append(files, fn)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	fn, err := WriteFormatted(f, results, ExtensionFor(format))
	if err != nil {
		return nil, err
	}
	return []string{fn}, nil
}

// enrich error with available formatters and aliases
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
