package weathertalk

import (
	"bytes"
	"fmt"
	"html/template"

	"weather-talk/internal/models"
)

// Mailer delivers an HTML message.
type Mailer interface {
	SendHTML(subject, htmlBody string) error
}

var timeOfDayLabels = map[models.TimeOfDay]string{
	models.Morning: "Morning",
	models.Noon:    "Afternoon",
	models.Evening: "Evening",
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"label": func(tod models.TimeOfDay) string {
		if l, ok := timeOfDayLabels[tod]; ok {
			return l
		}
		return string(tod)
	},
	"deref": func(p *float64) string { return num(p) },
}).Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Weather Small Talk</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 640px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2196F3; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .phrase { background-color: #f8f9fa; padding: 12px 15px; border-radius: 8px; margin-bottom: 10px; border-left: 4px solid #4CAF50; }
        .evidence { color: #666; font-size: 13px; }
        .section { margin-top: 20px; }
        .metric { display: inline-block; margin: 6px 15px 6px 0; }
        .metric-label { font-weight: bold; color: #666; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Location}}</h1>
        <p>{{.Date}} &middot; {{label .TimeOfDay}}</p>
    </div>

    {{range .TopPhrases}}
    <div class="phrase">
        <div>{{.Text}}</div>
        {{if .Evidence}}<div class="evidence">{{.Evidence}}</div>{{end}}
    </div>
    {{end}}

    <div class="section">
        <h3>Today in numbers</h3>
        <div class="metric"><span class="metric-label">High / Low:</span> {{deref .Details.MaxTemp}}°C / {{deref .Details.MinTemp}}°C</div>
        {{if .Details.YesterdayDiff}}<div class="metric"><span class="metric-label">vs yesterday:</span> {{.Details.YesterdayDiff}}°C</div>{{end}}
        <div class="metric"><span class="metric-label">Chance of rain:</span> {{deref .Details.RainProbToday}}%</div>
        <div class="metric"><span class="metric-label">Wind:</span> {{deref .Details.WindMax}}m/s</div>
        <div class="metric"><span class="metric-label">Humidity:</span> {{deref .Details.Humidity}}%</div>
        {{if .Details.Sunset}}<div class="metric"><span class="metric-label">Sunset:</span> {{.Details.Sunset}}</div>{{end}}
    </div>

    <div class="footer">
        <p>Weather data from Open-Meteo &middot; run {{.RunID}}</p>
    </div>
</body>
</html>
`))

// RenderDigest renders the HTML email for a report.
func RenderDigest(report *models.TalkReport) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}

func digestSubject(report *models.TalkReport) string {
	if len(report.TopPhrases) > 0 {
		return fmt.Sprintf("%s: %s", report.Location, report.TopPhrases[0].Text)
	}
	return fmt.Sprintf("Weather small talk for %s", report.Location)
}
