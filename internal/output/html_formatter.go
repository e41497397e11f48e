package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// HTMLFormatter produces a self-contained, printable HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"amt":    FormatAmount,
	"pct":    FormatPercentage,
	"rate":   FormatRate,
	"inc":    func(i int) int { return i + 1 },
	"rateOf": describeRate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.ScenarioComparison
		Recommendation Recommendation
		Assumptions    []string
		Generated      string
		Decumulation   int
	}{
		ScenarioComparison: results,
		Recommendation:     AnalyzeScenarios(results),
		Assumptions:        assumptionsFor(results),
		Generated:          time.Now().Format("2006-01-02 15:04:05"),
		Decumulation:       domain.DecumulationYears,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
