package web

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	appLog "stageplan/internal/log"
	"stageplan/internal/model"
	"stageplan/internal/stages"
)

// printPage is the server-rendered table the capture command screenshots.
// The table carries data-ready once rendered.
const printPage = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{if .Name}}{{.Name}}{{else}}Etappenplan{{end}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
tr.incomplete td { background: #fff4e5; }
pre.legend { font-family: inherit; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<table data-ready="true">
<thead>
<tr><th>Etappe</th><th>Datum</th><th>Start</th><th>Ende</th><th>Von</th><th>Nach</th><th>km</th><th>Art</th><th>Bergankunft</th></tr>
</thead>
<tbody>
{{range .Events}}<tr{{if not (complete .)}} class="incomplete"{{end}}>
<td>{{.Stage}}</td>
<td>{{fmtTime .Date "02.01.2006"}}</td>
<td>{{fmtTime .StartTime "15:04"}}</td>
<td>{{fmtTime .EndTime "15:04"}}</td>
<td>{{.From}}</td>
<td>{{.To}}</td>
<td>{{.Kilometers}}</td>
<td>{{.Type.Icon}} {{.Type.Label}}</td>
<td>{{if .MountainFinish}}⛰️{{end}}</td>
</tr>
{{end}}</tbody>
</table>
<pre class="legend">{{legend}}</pre>
</body>
</html>
`

func printTemplate() *template.Template {
	funcs := template.FuncMap{
		"fmtTime": func(t *time.Time, layout string) string {
			if t == nil {
				return ""
			}
			return t.Format(layout)
		},
		"complete": stages.RequiredFieldsFilled,
		"legend": model.Legend,
	}
	return template.Must(template.New("print").Funcs(funcs).Parse(printPage))
}

func (s *Server) handlePrint(w http.ResponseWriter, _ *http.Request) {
	it := s.store.Snapshot().Itinerary

	var buf bytes.Buffer
	if err := s.print.Execute(&buf, it); err != nil {
		appLog.Error("print view render failed", err)
		http.Error(w, "failed to render print view", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
