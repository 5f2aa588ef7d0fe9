// Package api implements the HTTP API for expanding and compressing
// hostlist expressions, plus a range-server compatible /range/list
// endpoint for erg clients.
package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/lemonberrylabs/hostlist/pkg/groups"
	"github.com/lemonberrylabs/hostlist/pkg/hostlist"
)

var (
	// MaxQuerySize is the longest expression the API will expand.
	MaxQuerySize = 1000

	// MaxResults is the most hosts a single expansion may produce.
	MaxResults = 10000
)

// maxCacheEntries bounds the expansion cache. The cache is dropped
// wholesale once it fills up.
const maxCacheEntries = 10000

// Server is the hostlist API server.
type Server struct {
	app    *fiber.App
	groups *groups.Registry
	cache  cmap.ConcurrentMap[string, []string]
}

// New creates a new API server backed by the given group registry.
func New(reg *groups.Registry) *Server {
	srv := &Server{
		groups: reg,
		cache:  cmap.New[[]string](),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	// Expansion API
	app.Get("/v1/expand", srv.expandGet)
	app.Post("/v1/expand", srv.expandPost)
	app.Post("/v1/compress", srv.compress)

	// Groups API
	app.Get("/v1/groups", srv.listGroups)
	app.Get("/v1/groups/:name", srv.getGroup)
	app.Put("/v1/groups/:name", srv.putGroup)
	app.Delete("/v1/groups/:name", srv.deleteGroup)
	app.Get("/v1/groups/:name/hosts", srv.groupHosts)

	// Range protocol, for erg and other range-server clients
	app.Get("/range/list", srv.rangeList)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// resolve expands query through the cache. Expansion is pure, so
// cached entries never go stale; callers must not mutate the returned
// slice.
func (s *Server) resolve(query string) ([]string, error) {
	if len(query) > MaxQuerySize {
		return nil, fmt.Errorf("query exceeds %d bytes", MaxQuerySize)
	}
	if hosts, ok := s.cache.Get(query); ok {
		return hosts, nil
	}
	hosts, err := hostlist.ExpandLimit(query, MaxResults)
	if err != nil {
		return nil, err
	}
	if s.cache.Count() >= maxCacheEntries {
		s.cache.Clear()
	}
	s.cache.Set(query, hosts)
	return hosts, nil
}

// --- Expansion handlers ---

type expandRequest struct {
	Query  string `json:"query"`
	Sorted bool   `json:"sorted"`
}

type compressRequest struct {
	Hosts []string `json:"hosts"`
}

func (s *Server) expandGet(c *fiber.Ctx) error {
	return s.expandResponse(c, c.Query("query"), c.Query("sorted") == "true")
}

func (s *Server) expandPost(c *fiber.Ctx) error {
	var req expandRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, 400, fmt.Sprintf("invalid request body: %v", err), "INVALID_ARGUMENT")
	}
	return s.expandResponse(c, req.Query, req.Sorted)
}

func (s *Server) expandResponse(c *fiber.Ctx, query string, sorted bool) error {
	hosts, err := s.resolve(query)
	if err != nil {
		return expressionError(c, err)
	}
	if sorted {
		hosts = sortedCopy(hosts)
	}
	return c.JSON(fiber.Map{
		"query": query,
		"count": len(hosts),
		"hosts": hosts,
	})
}

func (s *Server) compress(c *fiber.Ctx) error {
	var req compressRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, 400, fmt.Sprintf("invalid request body: %v", err), "INVALID_ARGUMENT")
	}
	return c.JSON(fiber.Map{
		"query": hostlist.Compress(req.Hosts),
		"count": len(req.Hosts),
	})
}

// --- Groups handlers ---

type putGroupRequest struct {
	Expression string `json:"expression"`
}

func (s *Server) listGroups(c *fiber.Ctx) error {
	names := s.groups.Names()
	items := make([]fiber.Map, 0, len(names))
	for _, name := range names {
		expr, err := s.groups.Get(name)
		if err != nil {
			continue
		}
		items = append(items, fiber.Map{
			"name":       name,
			"expression": expr,
		})
	}
	return c.JSON(fiber.Map{
		"groups": items,
		"count":  len(items),
	})
}

func (s *Server) getGroup(c *fiber.Ctx) error {
	name := c.Params("name")
	expr, err := s.groups.Get(name)
	if err != nil {
		return errorJSON(c, 404, err.Error(), "NOT_FOUND")
	}
	count, err := hostlist.Count(expr)
	if err != nil {
		return expressionError(c, err)
	}
	return c.JSON(fiber.Map{
		"name":       name,
		"expression": expr,
		"count":      count,
	})
}

func (s *Server) putGroup(c *fiber.Ctx) error {
	name := c.Params("name")
	var req putGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, 400, fmt.Sprintf("invalid request body: %v", err), "INVALID_ARGUMENT")
	}
	if err := s.groups.Set(name, req.Expression); err != nil {
		return expressionError(c, err)
	}
	return c.JSON(fiber.Map{
		"name":       name,
		"expression": req.Expression,
	})
}

func (s *Server) deleteGroup(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := s.groups.Delete(name); err != nil {
		return errorJSON(c, 404, err.Error(), "NOT_FOUND")
	}
	return c.JSON(fiber.Map{
		"name":    name,
		"deleted": true,
	})
}

func (s *Server) groupHosts(c *fiber.Ctx) error {
	name := c.Params("name")
	expr, err := s.groups.Get(name)
	if err != nil {
		return errorJSON(c, 404, err.Error(), "NOT_FOUND")
	}
	hosts, err := s.resolve(expr)
	if err != nil {
		return expressionError(c, err)
	}
	if c.Query("sorted") == "true" {
		hosts = sortedCopy(hosts)
	}
	return c.JSON(fiber.Map{
		"name":  name,
		"query": expr,
		"count": len(hosts),
		"hosts": hosts,
	})
}

// --- Range protocol ---

// rangeList speaks the range-server wire format: the whole raw query
// string is the URL-encoded expression, and the response is one host
// per line, sorted.
func (s *Server) rangeList(c *fiber.Ctx) error {
	raw := string(c.Request().URI().QueryString())
	query, err := url.QueryUnescape(raw)
	if err != nil {
		return c.Status(400).SendString(fmt.Sprintf("bad query string: %v", err))
	}
	hosts, err := s.resolve(query)
	if err != nil {
		return c.Status(400).SendString(err.Error())
	}
	sorted := sortedCopy(hosts)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(strings.Join(sorted, "\n") + "\n")
}

// --- Helpers ---

func sortedCopy(hosts []string) []string {
	out := append([]string(nil), hosts...)
	hostlist.Sort(out)
	return out
}

func errorJSON(c *fiber.Ctx, code int, message, status string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func expressionError(c *fiber.Ctx, err error) error {
	var perr *hostlist.ParseError
	if errors.As(err, &perr) {
		return c.Status(400).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    400,
				"message": err.Error(),
				"status":  "INVALID_ARGUMENT",
				"offset":  perr.Offset,
			},
		})
	}
	if errors.Is(err, hostlist.ErrTooManyResults) {
		return errorJSON(c, 400, err.Error(), "RESOURCE_EXHAUSTED")
	}
	return errorJSON(c, 400, err.Error(), "INVALID_ARGUMENT")
}
