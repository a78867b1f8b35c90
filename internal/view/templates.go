package view

import (
	"html/template"
	"io"

	"github.com/kjannette/trahn-portfolio/internal/portfolio"
)

type chipData struct {
	Name  string
	Color string
}

type readyData struct {
	Spent       string
	CryptoCount int
	Verb        string
	Tone        string
	Gain        string
	Percent     string
	Chips       []chipData
}

func newReadyData(s portfolio.Summary) readyData {
	d := readyData{
		Spent:       portfolio.FormatUSD(s.TotalSpent),
		CryptoCount: s.CryptoCount,
		Verb:        s.Verb(),
		Tone:        s.Tone.String(),
		Gain:        portfolio.GainText(s),
		Percent:     portfolio.FormatPercent(s),
		Chips:       make([]chipData, len(s.Assets)),
	}
	for i, a := range s.Assets {
		d.Chips[i] = chipData{Name: a.Name, Color: a.Indicator.String()}
	}
	return d
}

var templates = template.Must(template.New("view").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.}}</title>
<style>
body{margin:0;font-family:'Courier New',Courier,monospace;min-height:100vh;display:flex;flex-direction:column;justify-content:center;align-items:center}
.summary{max-width:600px;margin:16px auto}
.positive{color:green}.negative{color:red}
.chips{display:flex;justify-content:space-evenly;flex-wrap:wrap;max-width:100%}
.chip{border:1px solid;border-radius:16px;padding:4px 12px;margin:4px}
.chip-green{color:#2e7d32;border-color:#2e7d32}.chip-red{color:#d32f2f;border-color:#d32f2f}
.loading{width:200px;margin:16px auto}
.spinner{width:40px;height:40px;border:4px solid #1976d2;border-right-color:transparent;border-radius:50%;animation:spin 1s linear infinite}
@keyframes spin{to{transform:rotate(360deg)}}
.error{color:#d32f2f}
</style>
</head>
<body>
{{end}}

{{define "tail"}}</body>
</html>
{{end}}

{{define "loading"}}<div id="loading" class="loading" role="progressbar" aria-busy="true"><div class="spinner"></div></div>
{{end}}

{{define "resolved"}}<style>#loading{display:none}</style>
{{end}}

{{define "ready"}}<div class="summary" data-state="ready">
<div><span>You spent </span><span>{{.Spent}}</span><span> on {{.CryptoCount}} cryptos...!</span></div>
<div><span>You {{.Verb}} </span><span class="{{.Tone}}">{{.Gain}}, </span><span> that's </span><span class="{{.Tone}}">{{.Percent}}</span><span>...!</span></div>
<div class="chips">{{range .Chips}}
<span class="chip chip-{{.Color}}" data-indicator="{{.Color}}">{{.Name}}</span>{{end}}
</div>
</div>
{{end}}

{{define "failed"}}<div class="summary error" data-state="failed" role="alert">Could not load your portfolio right now.</div>
{{end}}

{{define "stopwatch"}}<div class="stopwatch" data-testid="App">
<span id="stopwatch" data-started="{{.StartedUnixMilli}}">{{.Elapsed}}</span>
</div>
<script>
(function(){var el=document.getElementById('stopwatch'),t0=+el.dataset.started;
function pad(n){return String(n).padStart(2,'0')}
setInterval(function(){var s=Math.floor((Date.now()-t0)/1000);
el.textContent=pad(Math.floor(s/3600))+':'+pad(Math.floor(s/60)%60)+':'+pad(s%60)},1000)})();
</script>
{{end}}
`))

// WriteHead writes the document preamble with the given title.
func WriteHead(w io.Writer, title string) error {
	return templates.ExecuteTemplate(w, "head", title)
}

// WriteTail closes the document.
func WriteTail(w io.Writer) error {
	return templates.ExecuteTemplate(w, "tail", nil)
}

// WriteLoading writes the progress indicator shown while a mount is pending.
func WriteLoading(w io.Writer) error {
	return templates.ExecuteTemplate(w, "loading", nil)
}

// WriteResolved hides the loading indicator once a final fragment follows it
// in the same streamed document.
func WriteResolved(w io.Writer) error {
	return templates.ExecuteTemplate(w, "resolved", nil)
}
