// Package web provides the embedded web UI for the hostlist service.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/hostlist/pkg/groups"
	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxUIResults caps how many hosts a single form submission may expand.
const maxUIResults = 10000

// Handler serves the web UI pages.
type Handler struct {
	registry *groups.Registry
	funcMap  template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	NavActive string
	Data      interface{}
}

// New creates a new web UI handler.
func New(reg *groups.Registry) *Handler {
	return &Handler{
		registry: reg,
		funcMap: template.FuncMap{
			"truncate": truncate,
			"comma":    comma,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, page string, navActive string, data interface{}) error {
	// Parse fresh per request so define blocks from one page never
	// collide with another page's blocks
	tmpl := template.Must(
		template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page),
	)

	pd := pageData{
		NavActive: navActive,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.expandPage)
	app.Get("/ui/groups", h.groupList)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

// --- Page Data Types ---

type expandContent struct {
	Query     string
	Submitted bool
	Hosts     []string
	Count     int
	Err       string
	Caret     string
}

type groupListContent struct {
	Groups []*groupView
}

type groupView struct {
	Name       string
	Expression string
	Count      uint64
}

// --- Page Handlers ---

func (h *Handler) expandPage(c *fiber.Ctx) error {
	content := expandContent{Query: c.Query("query")}

	if content.Query != "" {
		content.Submitted = true
		hosts, err := hostlist.ExpandLimit(content.Query, maxUIResults)
		if err != nil {
			content.Err = err.Error()
			var perr *hostlist.ParseError
			if errors.As(err, &perr) {
				content.Caret = strings.Repeat(" ", perr.Offset) + "^"
			}
		} else {
			content.Hosts = hosts
			content.Count = len(hosts)
		}
	}

	return h.render(c, "expand.html", "expand", content)
}

func (h *Handler) groupList(c *fiber.Ctx) error {
	var views []*groupView
	for _, name := range h.registry.Names() {
		expr, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		n, err := hostlist.Count(expr)
		if err != nil {
			continue
		}
		views = append(views, &groupView{
			Name:       name,
			Expression: expr,
			Count:      n,
		})
	}

	return h.render(c, "group_list.html", "groups", groupListContent{
		Groups: views,
	})
}

// --- Template Helpers ---

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func comma(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
