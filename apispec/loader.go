package apispec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/specgate/specgate"
	"github.com/specgate/specgate/internal/options"
	"github.com/specgate/specgate/specerrors"
)

// DefaultMaxFileSize is the maximum document size accepted by the
// providers. Descriptions beyond this bound indicate pathological input.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// DefaultIntrospectionPath is the well-known path where a running
// application serves its own API description.
const DefaultIntrospectionPath = "/openapi.json"

// Option is a function that configures a load operation.
type Option func(*loadConfig) error

// loadConfig holds configuration for a load operation.
type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	baseURL  *string
	reader   io.Reader

	// Configuration options
	userAgent         string
	httpClient        *http.Client
	logger            Logger
	introspectionPath string

	// Resource limits (0 means use default)
	maxDepth    int
	maxFileSize int64

	// Source identification
	sourceName *string
}

// LoadWithOptions loads an API description using functional options.
//
// Example:
//
//	doc, err := apispec.LoadWithOptions(ctx,
//	    apispec.WithFilePath("openapi.yaml"),
//	)
func LoadWithOptions(ctx context.Context, opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("apispec: invalid options: %w", err)
	}

	var (
		data   []byte
		source string
	)
	switch {
	case cfg.filePath != nil:
		source = *cfg.filePath
		data, err = readFile(*cfg.filePath, cfg.fileSizeLimit())
	case cfg.baseURL != nil:
		source = introspectionURL(*cfg.baseURL, cfg.introspectionPath)
		data, err = cfg.fetch(ctx, source)
	case cfg.reader != nil:
		source = "reader"
		data, err = readAll(cfg.reader, cfg.fileSizeLimit(), source)
	default:
		return nil, fmt.Errorf("apispec: no input source specified")
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != nil {
		source = *cfg.sourceName
	}

	cfg.log().Debug("loaded raw description", "source", source, "bytes", len(data))
	return build(data, source, cfg.maxDepth)
}

// LoadFile loads an API description from a JSON or YAML file on disk.
func LoadFile(path string) (*Document, error) {
	return LoadWithOptions(context.Background(), WithFilePath(path))
}

// LoadURL loads an API description from a running application by fetching
// its introspection endpoint under baseURL.
func LoadURL(ctx context.Context, baseURL string) (*Document, error) {
	return LoadWithOptions(ctx, WithURL(baseURL))
}

// build decodes raw bytes into a Document and validates every reference
// against the registry, so that comparison never sees an unresolved name.
func build(data []byte, source string, maxDepth int) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &specerrors.LoadError{Source: source, Message: "not valid JSON or YAML", Cause: err}
	}

	doc, err := decodeDocument(raw, source)
	if err != nil {
		return nil, err
	}
	doc.MaxDepth = maxDepth
	if err := ValidateReferences(doc, source); err != nil {
		return nil, err
	}
	return doc, nil
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		userAgent:         specgate.UserAgent(),
		introspectionPath: DefaultIntrospectionPath,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOneSource(
		"must specify an input source (use WithFilePath, WithURL, or WithReader)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.baseURL != nil, cfg.reader != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *loadConfig) fileSizeLimit() int64 {
	if cfg.maxFileSize > 0 {
		return cfg.maxFileSize
	}
	return DefaultMaxFileSize
}

func (cfg *loadConfig) log() Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return NopLogger{}
}

func (cfg *loadConfig) client() *http.Client {
	if cfg.httpClient != nil {
		return cfg.httpClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (cfg *loadConfig) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &specerrors.LoadError{Source: url, Message: "invalid URL", Cause: err}
	}
	req.Header.Set("User-Agent", cfg.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := cfg.client().Do(req)
	if err != nil {
		return nil, &specerrors.LoadError{Source: url, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &specerrors.LoadError{Source: url, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return readAll(resp.Body, cfg.fileSizeLimit(), url)
}

// introspectionURL joins the application base URL with the introspection
// path. A base URL that already names a document is used as-is.
func introspectionURL(baseURL, path string) string {
	if path == "" || strings.HasSuffix(baseURL, ".json") || strings.HasSuffix(baseURL, ".yaml") || strings.HasSuffix(baseURL, ".yml") {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + path
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &specerrors.LoadError{Source: path, Message: "cannot open file", Cause: err}
	}
	defer f.Close()
	return readAll(f, limit, path)
}

func readAll(r io.Reader, limit int64, source string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, &specerrors.LoadError{Source: source, Message: "read failed", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &specerrors.LoadError{Source: source, Message: fmt.Sprintf("document exceeds size limit of %d bytes", limit)}
	}
	return data, nil
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithURL specifies a running application's base URL as the input source.
// The description is fetched from the introspection path under it.
func WithURL(baseURL string) Option {
	return func(cfg *loadConfig) error {
		if baseURL == "" {
			return fmt.Errorf("URL cannot be empty")
		}
		cfg.baseURL = &baseURL
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return fmt.Errorf("reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithIntrospectionPath overrides the path fetched under the base URL.
// Default: "/openapi.json". Only takes effect together with WithURL.
func WithIntrospectionPath(path string) Option {
	return func(cfg *loadConfig) error {
		if path != "" && !strings.HasPrefix(path, "/") {
			return fmt.Errorf("introspection path must start with /")
		}
		cfg.introspectionPath = path
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for fetching URLs.
// If the client is nil, this option has no effect (default client is used).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loadConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests.
// Default: "specgate/vX.Y.Z".
func WithUserAgent(ua string) Option {
	return func(cfg *loadConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithLogger sets a structured logger for debug output during loading.
// By default, no logging is performed.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxDepth sets the maximum reference chain length the resolver will
// follow during comparison. A value of 0 means use the default (100).
// Returns an error if depth is negative.
func WithMaxDepth(depth int) Option {
	return func(cfg *loadConfig) error {
		if depth < 0 {
			return fmt.Errorf("maxDepth cannot be negative")
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithMaxFileSize sets the maximum document size in bytes.
// A value of 0 means use the default (10MB).
// Returns an error if size is negative.
func WithMaxFileSize(size int64) Option {
	return func(cfg *loadConfig) error {
		if size < 0 {
			return fmt.Errorf("maxFileSize cannot be negative")
		}
		cfg.maxFileSize = size
		return nil
	}
}

// WithSourceName specifies a meaningful name for the source document.
// The name is used in reports and error messages in place of the file
// path or URL.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		if name == "" {
			return fmt.Errorf("source name cannot be empty")
		}
		cfg.sourceName = &name
		return nil
	}
}
