package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/htmldrop"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	BaseURL   string
	Posts     htmldrop.PostService
	Submitter htmldrop.Submitter
	Converter Converter
	Sitemaps  htmldrop.SitemapWriter

	// NewExporter opens an exporter that replaces dir on Commit. Defaults
	// to the file system exporter.
	NewExporter func(dir string, markdown bool) htmldrop.PostExporter

	// Set for the serve command only.
	Bot    Service
	Server Server
}

// Converter converts HTML to Markdown, whole posts included.
type Converter interface {
	htmldrop.Converter
	ConvertPost(post *htmldrop.Post) (string, error)
}

// Service is a long-running component started by serve.
type Service interface {
	Open() error
	Close() error
}

// Server is the read API started by serve.
type Server interface {
	Open(addr string) error
	Close(ctx context.Context) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string `name:"db" env:"HTMLDROP_DB" help:"SQLite database path"`
	DatabaseURL string `name:"database-url" env:"HTMLDROP_DATABASE_URL" help:"PostgreSQL connection string; overrides --db"`
	BaseURL     string `name:"base-url" env:"HTMLDROP_BASE_URL" default:"http://localhost:8080" help:"Public address prefix for posts"`
	Debug       bool   `help:"Enable debug logging"`

	Provider    string `env:"HTMLDROP_PROVIDER" enum:"openai,gemini" default:"openai" help:"Metadata provider (openai, gemini)"`
	OpenAIKey   string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI-compatible API key"`
	OpenAIURL   string `name:"openai-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`
	OpenAIModel string `name:"openai-model" env:"OPENAI_MODEL" help:"OpenAI model name"`
	GeminiKey   string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GeminiModel string `name:"gemini-model" env:"GEMINI_MODEL" help:"Gemini model name"`
	MaxBytes    int64  `name:"max-bytes" env:"HTMLDROP_MAX_BYTES" default:"26214400" help:"Largest accepted attachment in bytes"`
	SubmitRate  int    `name:"rate" env:"HTMLDROP_RATE" default:"5" help:"Submissions per user per minute"`

	Serve   ServeCmd   `cmd:"" help:"Run the Discord bot and the read API"`
	Submit  SubmitCmd  `cmd:"" help:"Publish local HTML files"`
	List    ListCmd    `cmd:"" help:"List published posts"`
	Show    ShowCmd    `cmd:"" help:"Print a published post"`
	Sitemap SitemapCmd `cmd:"" help:"Write a sitemap of all posts"`
	Export  ExportCmd  `cmd:"" help:"Export all posts as static files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Listen string `env:"HTMLDROP_LISTEN" default:":8080" help:"Read API listen address"`
	Token  string `env:"DISCORD_TOKEN" help:"Discord bot token"`
}

// SubmitCmd is the "submit" subcommand.
type SubmitCmd struct {
	Files       []string `arg:"" type:"existingfile" help:"HTML files to publish"`
	AuthorID    string   `name:"author-id" default:"local" help:"Author ID recorded on posts"`
	AuthorName  string   `name:"author-name" default:"local" help:"Author name recorded on posts"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent submissions"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Author string `help:"Only posts by this author ID"`
	Limit  int    `short:"n" default:"20" help:"Maximum posts to list"`
	Offset int    `help:"Posts to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Slug     string `arg:"" help:"Post slug"`
	Markdown bool   `short:"m" help:"Print as Markdown"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	Output string `short:"o" help:"Output file (default stdout)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir      string `arg:"" help:"Output directory, replaced atomically"`
	Markdown bool   `short:"m" help:"Also write Markdown copies"`
}
