package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Dashboard renders the read-only operator overview of running games and card pools.
func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html>
<html lang="ru">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Бункер · админка</title>
  </head>
  <body>
    <main>
      <h1>Активные игры</h1>
`)
		if len(data.Games) == 0 {
			b.WriteString("      <p class=\"empty\">нет активных игр</p>\n")
		} else {
			b.WriteString("      <table class=\"games\">\n        <tr><th>Чат</th><th>Фаза</th><th>Раунд</th><th>Игроки</th><th>Мест</th><th>Ход</th><th>Создана</th></tr>\n")
			for _, g := range data.Games {
				b.WriteString("        <tr><td>")
				b.WriteString(formatChat(g.ChatID))
				b.WriteString("</td><td>")
				b.WriteString(templ.EscapeString(g.Phase))
				b.WriteString("</td><td>")
				b.WriteString(orDash(g.Round))
				b.WriteString("</td><td>")
				b.WriteString(itoa(g.Alive) + "/" + itoa(g.Players))
				b.WriteString("</td><td>")
				b.WriteString(orDash(g.Capacity))
				b.WriteString("</td><td>")
				if g.CurrentTurn != 0 {
					b.WriteString(formatChat(g.CurrentTurn))
				} else {
					b.WriteString("-")
				}
				b.WriteString("</td><td>")
				b.WriteString(formatTime(g.CreatedAt))
				b.WriteString("</td></tr>\n")
			}
			b.WriteString("      </table>\n")
		}
		b.WriteString("      <h2>Колоды</h2>\n      <ul class=\"cards\">\n")
		for _, c := range data.Cards {
			b.WriteString("        <li>")
			b.WriteString(templ.EscapeString(c.Category))
			b.WriteString(": ")
			b.WriteString(itoa(c.Count))
			b.WriteString("</li>\n")
		}
		b.WriteString("      </ul>\n      <footer>")
		b.WriteString(formatTime(data.GeneratedAt))
		b.WriteString("</footer>\n    </main>\n  </body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
