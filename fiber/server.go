// Package fiber serves a read-only JSON API over stored posts.
package fiber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/fwojciec/htmldrop"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Listing limits for GET /api/posts.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Server is the read API.
type Server struct {
	app    *fiber.App
	posts  htmldrop.PostService
	logger *slog.Logger
	ln     net.Listener

	// BaseURL prefixes slugs in the url field of responses.
	BaseURL string
}

// NewServer creates a Server with its routes registered.
func NewServer(posts htmldrop.PostService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{posts: posts, logger: logger}

	s.app = fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.logRequest)

	s.app.Get("/healthz", s.handleHealth)
	api := s.app.Group("/api")
	api.Get("/posts", s.handleListPosts)
	api.Get("/posts/:slug", s.handleGetPost)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Open starts listening on addr and serves in the background.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.app.Listener(ln); err != nil {
			s.logger.Error("read api stopped", "err", err)
		}
	}()
	s.logger.Info("read api listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once Open has succeeded.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// postSummary is a listed post without its content.
type postSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	filter := htmldrop.PostFilter{
		Limit:  min(max(c.QueryInt("limit", DefaultLimit), 1), MaxLimit),
		Offset: max(c.QueryInt("offset", 0), 0),
	}
	if author := c.Query("author"); author != "" {
		filter.AuthorID = &author
	}

	posts, err := s.posts.FindPosts(c.UserContext(), filter)
	if err != nil {
		return err
	}

	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			URL:         s.postURL(p.Slug),
			AuthorName:  p.AuthorName,
			CreatedAt:   p.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{
		"posts":  out,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (s *Server) handleGetPost(c *fiber.Ctx) error {
	post, err := s.posts.FindPostBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (s *Server) postURL(slug string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + slug
}

// handleError maps application error codes to HTTP statuses. Internal
// errors are logged and reported without detail.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	switch htmldrop.ErrorCode(err) {
	case htmldrop.ENOTFOUND:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": htmldrop.ErrorMessage(err)})
	case htmldrop.EINVALID:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": htmldrop.ErrorMessage(err)})
	}

	s.logger.Error("read api error", "method", c.Method(), "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	begin := time.Now()
	err := c.Next()
	s.logger.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(begin),
		"err", err,
	)
	return err
}
