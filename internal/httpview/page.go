package httpview

import (
	"html/template"

	"github.com/park285/chess3d/pkg/chessdto"
)

type pageData struct {
	Lang      string
	State     chessdto.ViewState
	Languages []chessdto.Language
}

var pageTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.State.Labels.Title}}</title>
<style>
body { background: #14161f; color: #eceffe; font-family: sans-serif; display: flex; gap: 24px; padding: 16px; }
#board { cursor: pointer; image-rendering: pixelated; }
aside { min-width: 220px; }
button { margin: 4px 4px 4px 0; }
#status { color: #ff9a6a; font-weight: bold; min-height: 1.2em; }
#opening { color: #9aa3c7; font-size: 0.9em; min-height: 1.2em; }
ol { padding-left: 0; list-style: none; font-family: monospace; }
</style>
</head>
<body>
<img id="board" src="/board.png" alt="{{.State.Labels.Title}}">
<aside>
  <h2>{{.State.Labels.Title}}</h2>
  <div>{{.State.Labels.CurrentTurn}}: <span id="turn">{{.State.Labels.SideToMove}}</span></div>
  <div id="status">{{.State.StatusText}}</div>
  <div id="opening">{{with .State.Opening}}{{.Code}} {{.Name}}{{end}}</div>
  <button id="reset">{{.State.Labels.NewGame}}</button>
  <div>{{.State.Labels.Language}}:
  {{range .Languages}}<button data-lang="{{.Code}}">{{.Name}}</button>{{end}}
  </div>
  <h3>{{.State.Labels.MoveHistory}}</h3>
  <ol id="history">{{range .State.History}}<li>{{.}}</li>{{end}}</ol>
  <details><summary id="help-title">{{.State.Labels.HelpTitle}}</summary><pre id="help"></pre></details>
</aside>
<script>
const img = document.getElementById('board');
function apply(s) {
  document.getElementById('turn').textContent = s.labels.side_to_move;
  document.getElementById('status').textContent = s.status_text || '';
  document.getElementById('opening').textContent = s.opening ? s.opening.code + ' ' + s.opening.name : '';
  const h = document.getElementById('history');
  h.replaceChildren(...s.history.map(t => { const li = document.createElement('li'); li.textContent = t; return li; }));
  img.src = '/board.png?t=' + Date.now();
}
async function post(url) {
  const r = await fetch(url, {method: 'POST'});
  const s = await (await fetch('/state')).json();
  apply(s);
  if (!r.ok) { const e = await r.json(); document.getElementById('status').textContent = e.message; }
}
img.addEventListener('click', e => {
  const b = img.getBoundingClientRect();
  const x = Math.floor((e.clientX - b.left) * img.naturalWidth / b.width);
  const y = Math.floor((e.clientY - b.top) * img.naturalHeight / b.height);
  post('/click?x=' + x + '&y=' + y);
});
document.getElementById('reset').addEventListener('click', () => post('/reset'));
document.querySelectorAll('[data-lang]').forEach(btn =>
  btn.addEventListener('click', async () => { await post('/language?code=' + btn.dataset.lang); location.reload(); }));
fetch('/help').then(r => r.json()).then(h => { document.getElementById('help').textContent = h.text; });
</script>
</body>
</html>
`))
