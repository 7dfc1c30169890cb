package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"NewsPull/internal/domain/models"
)

const reportTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Ticker Sentiment Report &mdash; {{.Date}}</h2>
<p><b>Market:</b> {{.Market.Label}} (avg {{printf "%.2f" .MarketAvg}}, {{.Market.ArticleCount}} articles,
{{.Duplicates}} duplicates, {{.Skipped}} skipped)</p>
{{range .Tickers}}
<h3>{{.Symbol}} &mdash; {{.Label}} (avg {{printf "%.2f" .Average}}, {{.ArticleCount}} articles)</h3>
<ul>
{{range .TopHeadlines}}
  <li>[{{.Result.Label}} {{printf "%+.2f" .Result.Score}}]
      <a href="{{.Article.Link}}">{{.Article.Title}}</a>
      <i>({{.Article.Source}})</i></li>
{{end}}
</ul>
{{end}}
{{if .Warnings}}
<p style="color: #a00;"><b>Warnings:</b></p>
<ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
{{end}}
</body>
</html>`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

type tickerView struct {
	Symbol       string
	Label        models.Label
	Average      float64
	ArticleCount int
	TopHeadlines []models.RankedHeadline
}

type reportView struct {
	Date       string
	Market     models.TickerAggregate
	MarketAvg  float64
	Duplicates int
	Skipped    int
	Tickers    []tickerView
	Warnings   []string
}

// Render produces the email subject and HTML body for a cycle report.
// Tickers are ordered by mean score descending.
func Render(r *models.CycleReport) (subject, html string, err error) {
	if r == nil {
		return "", "", fmt.Errorf("nil report")
	}

	tickers := make([]tickerView, 0, len(r.Tickers))
	for _, t := range r.Tickers {
		tickers = append(tickers, tickerView{
			Symbol:       t.Symbol,
			Label:        t.Label,
			Average:      t.Average(),
			ArticleCount: t.ArticleCount,
			TopHeadlines: t.TopHeadlines,
		})
	}
	sort.Slice(tickers, func(i, j int) bool {
		if tickers[i].Average != tickers[j].Average {
			return tickers[i].Average > tickers[j].Average
		}
		return tickers[i].Symbol < tickers[j].Symbol
	})

	date := r.FinishedAt.Format("2006-01-02")
	view := reportView{
		Date:       date,
		Market:     r.Market,
		MarketAvg:  r.Market.Average(),
		Duplicates: r.Duplicates,
		Skipped:    r.SkippedTotal(),
		Tickers:    tickers,
		Warnings:   r.Warnings,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("render report: %w", err)
	}

	label := strings.ReplaceAll(string(r.Market.Label), "_", " ")
	subject = fmt.Sprintf("Ticker Sentiment %s: %s", date, label)
	return subject, buf.String(), nil
}
