package differ

import (
	"context"
	"fmt"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/internal/options"
)

// Option is a function that configures a compare operation
type Option func(*compareConfig) error

// compareConfig holds configuration for a compare operation
type compareConfig struct {
	// Input sources (exactly one baseline and one candidate must be set)
	baselineFile  *string
	baselineURL   *string
	baselineDoc   *apispec.Document
	candidateFile *string
	candidateURL  *string
	candidateDoc  *apispec.Document

	// Configuration options
	rules   *RulesConfig
	logger  apispec.Logger
	workers int
}

// CompareWithOptions compares two API descriptions using functional
// options, loading them from files or running applications as needed.
//
// Example:
//
//	report, err := differ.CompareWithOptions(ctx,
//	    differ.WithBaselineFile("api-v1.yaml"),
//	    differ.WithCandidateURL("http://localhost:8080"),
//	)
func CompareWithOptions(ctx context.Context, opts ...Option) (*Report, error) {
	cfg := &compareConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("differ: invalid options: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	baseline, err := cfg.load(ctx, cfg.baselineDoc, cfg.baselineFile, cfg.baselineURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	candidate, err := cfg.load(ctx, cfg.candidateDoc, cfg.candidateFile, cfg.candidateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	d := &Differ{
		Rules:   cfg.rules,
		Logger:  cfg.logger,
		Workers: cfg.workers,
	}
	return d.Compare(baseline, candidate)
}

func (cfg *compareConfig) validate() error {
	if err := options.RequireOneSource(
		"must specify a baseline source (use WithBaselineFile, WithBaselineURL, or WithBaselineDocument)",
		"must specify exactly one baseline source",
		cfg.baselineFile != nil, cfg.baselineURL != nil, cfg.baselineDoc != nil,
	); err != nil {
		return err
	}
	return options.RequireOneSource(
		"must specify a candidate source (use WithCandidateFile, WithCandidateURL, or WithCandidateDocument)",
		"must specify exactly one candidate source",
		cfg.candidateFile != nil, cfg.candidateURL != nil, cfg.candidateDoc != nil,
	)
}

func (cfg *compareConfig) load(ctx context.Context, doc *apispec.Document, file, url *string) (*apispec.Document, error) {
	switch {
	case doc != nil:
		return doc, nil
	case file != nil:
		loadOpts := []apispec.Option{apispec.WithFilePath(*file)}
		if cfg.logger != nil {
			loadOpts = append(loadOpts, apispec.WithLogger(cfg.logger))
		}
		return apispec.LoadWithOptions(ctx, loadOpts...)
	default:
		loadOpts := []apispec.Option{apispec.WithURL(*url)}
		if cfg.logger != nil {
			loadOpts = append(loadOpts, apispec.WithLogger(cfg.logger))
		}
		return apispec.LoadWithOptions(ctx, loadOpts...)
	}
}

// WithBaselineFile specifies a file path as the baseline source.
func WithBaselineFile(path string) Option {
	return func(cfg *compareConfig) error {
		cfg.baselineFile = &path
		return nil
	}
}

// WithBaselineURL specifies a running application's base URL as the
// baseline source.
func WithBaselineURL(url string) Option {
	return func(cfg *compareConfig) error {
		cfg.baselineURL = &url
		return nil
	}
}

// WithBaselineDocument specifies an already-loaded baseline document.
func WithBaselineDocument(doc *apispec.Document) Option {
	return func(cfg *compareConfig) error {
		if doc == nil {
			return fmt.Errorf("baseline document cannot be nil")
		}
		cfg.baselineDoc = doc
		return nil
	}
}

// WithCandidateFile specifies a file path as the candidate source.
func WithCandidateFile(path string) Option {
	return func(cfg *compareConfig) error {
		cfg.candidateFile = &path
		return nil
	}
}

// WithCandidateURL specifies a running application's base URL as the
// candidate source.
func WithCandidateURL(url string) Option {
	return func(cfg *compareConfig) error {
		cfg.candidateURL = &url
		return nil
	}
}

// WithCandidateDocument specifies an already-loaded candidate document.
func WithCandidateDocument(doc *apispec.Document) Option {
	return func(cfg *compareConfig) error {
		if doc == nil {
			return fmt.Errorf("candidate document cannot be nil")
		}
		cfg.candidateDoc = doc
		return nil
	}
}

// WithRules sets the classification rule overrides.
func WithRules(rules *RulesConfig) Option {
	return func(cfg *compareConfig) error {
		cfg.rules = rules
		return nil
	}
}

// WithLogger sets a structured logger for debug output during loading
// and comparison. By default, no logging is performed.
func WithLogger(l apispec.Logger) Option {
	return func(cfg *compareConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithWorkers bounds the number of operation pairs compared concurrently.
// Returns an error if n is negative.
func WithWorkers(n int) Option {
	return func(cfg *compareConfig) error {
		if n < 0 {
			return fmt.Errorf("workers cannot be negative")
		}
		cfg.workers = n
		return nil
	}
}
