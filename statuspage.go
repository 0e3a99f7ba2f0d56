package main

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	htmltree "github.com/orangishcat/note/internal/ht"
)

var startedAt = time.Now()

// statusPage implements GET /status: a small human-readable dashboard
// showing the service is alive, how long it has been running, and which
// collaborators are wired in. It exists for operators poking the service
// with a browser, not for machine consumption.
func (s *Server) statusPage(c *gin.Context) {
	rows := []htmltree.Content{
		statRow("uptime", time.Since(startedAt).Round(time.Second).String()),
		statRow("goroutines", fmt.Sprintf("%d", runtime.NumGoroutine())),
		statRow("transcriber", collaboratorStatus(s.Transcriber != nil)),
		statRow("storage", collaboratorStatus(s.Bucket != nil)),
		statRow("auth", collaboratorStatus(s.Verifier != nil)),
		statRow("rate limit", fmt.Sprintf("%.0f req/s, burst %d", float64(s.rateRPS), s.rateBurst)),
	}

	page := htmltree.Html("",
		htmltree.Head("",
			htmltree.Title("", htmltree.SC("note scoring service")),
		),
		htmltree.Body("",
			htmltree.H1("", htmltree.SC("note scoring service")),
			htmltree.Ul("", rows...),
		),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf, -1); err != nil {
		c.String(http.StatusInternalServerError, "failed to render status page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func statRow(label, value string) *htmltree.ElementTree {
	return htmltree.Li("", htmltree.B("", htmltree.SC(label+": ")), htmltree.SC(value))
}

func collaboratorStatus(wired bool) string {
	if wired {
		return "connected"
	}
	return "not configured"
}
