package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/wikioutline/outline"
	"github.com/c360studio/wikioutline/page"
	"github.com/c360studio/wikioutline/wiki"
)

// ErrNoContent is returned when an article was fetched but contained no
// headings to outline.
var ErrNoContent = errors.New("no content found")

// Resolver resolves a URL to a response body, typically through the cache.
type Resolver interface {
	Resolve(ctx context.Context, url string) ([]byte, error)
}

// Service produces outlines and article pages for country names.
type Service struct {
	resolver  Resolver
	converter *page.Converter
	baseURL   string
	logger    *slog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithBaseURL overrides the Wikipedia article base URL. Used by tests to
// point the service at a stub upstream.
func WithBaseURL(base string) ServiceOption {
	return func(s *Service) { s.baseURL = base }
}

// NewService creates a Service reading pages through the given resolver.
func NewService(resolver Resolver, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		resolver:  resolver,
		converter: page.NewConverter(),
		baseURL:   wiki.BaseURL,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// articleURL derives the article URL for a country against the configured base.
func (s *Service) articleURL(country string) string {
	return s.baseURL + wiki.Slug(country)
}

// Outline fetches a country's article and returns its Markdown outline.
// An article with no surviving headings returns ErrNoContent.
func (s *Service) Outline(ctx context.Context, country string) (string, error) {
	url := s.articleURL(country)

	body, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return "", err
	}

	headings, err := outline.ExtractHeadings(string(body))
	if err != nil {
		return "", fmt.Errorf("extract headings: %w", err)
	}
	if len(headings) == 0 {
		return "", ErrNoContent
	}

	s.logger.Debug("extracted headings", "country", country, "count", len(headings))

	return outline.Format(country, headings), nil
}

// Page fetches a country's article and returns its full text as Markdown.
func (s *Service) Page(ctx context.Context, country string) (string, error) {
	url := s.articleURL(country)

	body, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return "", err
	}

	result, err := s.converter.Convert(body, url)
	if err != nil {
		return "", err
	}
	if result.Markdown == "" {
		return "", ErrNoContent
	}

	return result.Markdown, nil
}
