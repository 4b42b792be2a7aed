package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"fitness-analyzer/models"
	"fitness-analyzer/services"
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"interpret": func(r *models.NormalityResult) string {
		return services.Interpretation(r)
	},
	"total": func(l *models.Listing) float64 {
		_, _, t := l.Scores()
		return t
	},
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Listing Fitness Analysis</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { color: #7b2d8b; }
table { border-collapse: collapse; }
td, th { padding: 4px 10px; border-bottom: 1px solid #ddd; text-align: left; }
img { width: 100%; max-width: 960px; page-break-inside: avoid; }
.meta { color: #808080; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Listing Fitness Analysis</h1>
<p class="meta">Run {{.Report.RunID}} &middot; {{.Report.GeneratedAt.Format "2006-01-02 15:04"}} &middot; {{.Report.SampleSize}} listings{{with .Report.Source}} &middot; {{.}}{{end}}</p>

<h2>Shapiro-Wilk Normality Test for Total Fitness</h2>
{{with .Report.Normality}}
<p>Test Statistic: {{f4 .Statistic}}<br>P-value: {{f4 .PValue}}</p>
<p>{{interpret .}}</p>
{{else}}
<p>{{.Report.NormalitySkipped}}</p>
{{end}}

<h2>Scaled Price vs. Scaled Mileage Fitness</h2>
{{with .Report.Regression}}
<p>Linear Regression Slope (a factor): {{.Slope}}<br>y = {{f2 .Slope}}x + {{f2 .Intercept}}, R² {{f4 .RSquared}}</p>
{{else}}
<p>Linear regression not available (degenerate data).</p>
{{end}}
{{with .Scatter}}<img alt="scatter" src="{{.}}">{{end}}

<h2>Total Fitness Distribution</h2>
<p>Gaussian Fit (μ={{f2 .Report.Gaussian.Mu}}, σ={{f2 .Report.Gaussian.Sigma}})</p>
{{with .Histogram}}<img alt="histogram" src="{{.}}">{{end}}

<h2>Best Listings</h2>
<table>
<tr><th>#</th><th>Title</th><th>Price</th><th>Mileage</th><th>Total</th></tr>
{{range $i, $s := .Top}}
<tr><td>{{inc $i}}</td><td>{{if $s.Listing.Link}}<a href="{{$s.Listing.Link}}">{{$s.Listing.Title}}</a>{{else}}{{$s.Listing.Title}}{{end}}</td><td>{{$s.Listing.Price}}</td><td>{{$s.Listing.Mileage}}</td><td>{{f4 (total $s.Listing)}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

// HTML renders a self-contained report page. scatterSVG and histSVG are embedded
// as data URIs; either may be nil.
func HTML(r *models.AnalysisReport, scatterSVG, histSVG []byte, top int) ([]byte, error) {
	data := struct {
		Report    *models.AnalysisReport
		Scatter   template.URL
		Histogram template.URL
		Top       []models.ScoredListing
	}{
		Report:    r,
		Scatter:   svgDataURI(scatterSVG),
		Histogram: svgDataURI(histSVG),
		Top:       r.Top(top),
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: html: %w", err)
	}
	return buf.Bytes(), nil
}

func svgDataURI(svg []byte) template.URL {
	if len(svg) == 0 {
		return ""
	}
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}
