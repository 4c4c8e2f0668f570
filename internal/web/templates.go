package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

const sessionCookie = "session_id"

type templates struct {
	game  *template.Template
	frag  *template.Template
	index *template.Template
}

// gameView is the data every game template receives.
type gameView struct {
	ID       string
	Snapshot domain.Snapshot
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	template.Must(base.New("game").Parse(gameTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(
		`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="live" hx-sse="swap:game">{{template "game" .}}</div>
</div>`))
	frag := template.Must(template.New("game_only").Funcs(funcs()).Parse(gameTemplate))
	return &templates{game: game, frag: frag, index: index}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.board-row { display: flex; }
.board-row form { margin: 0; }
.square { width: 3em; height: 3em; font-size: 1.5em; }
.square.win { background: #ffe08a; }
.move.current { font-weight: bold; }
</style>
</head><body>{{template "content" .}}</body></html>`

const gameTemplate = `
<div id="game">
  <div class="game-board">
  {{range $r := iter 3}}
    <div class="board-row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#game" hx-swap="outerHTML" action="/game/{{$.ID}}/play" method="post">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit" class="square{{if $.Snapshot.OnWinLine $i}} win{{end}}">{{index $.Snapshot.Board $i}}</button>
      </form>
    {{end}}
    </div>
  {{end}}
  </div>
  <div class="game-info">
    <div class="status">{{.Snapshot.Status}}</div>
    <ol>
    {{range .Snapshot.Moves}}
      <li>
        <form hx-post="/game/{{$.ID}}/jump" hx-target="#game" hx-swap="outerHTML" action="/game/{{$.ID}}/jump" method="post">
          <input type="hidden" name="step" value="{{.Step}}">
          <button type="submit" class="move{{if .Current}} current{{end}}">{{.Label}}</button>
        </form>
      </li>
    {{end}}
    </ol>
  </div>
  <div class="info-order">
    <form hx-post="/game/{{.ID}}/order" hx-target="#game" hx-swap="outerHTML" action="/game/{{.ID}}/order" method="post">
      <button type="submit" class="order">{{if .Snapshot.Ascending}}ascending{{else}}descending{{end}}</button>
    </form>
  </div>
</div>
`

// sessionFromCookie returns the session id remembered by the browser, if any.
func sessionFromCookie(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
