package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"sigs.k8s.io/yaml"

	"github.com/blimu-dev/swiftgen/pkg/spec"
)

// SupportedExtensions lists the file extensions a document may have.
var SupportedExtensions = []string{".json", ".yaml", ".yml"}

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries is how many times a transient HTTP failure (>=500, 429 or a
	// network error) is retried after the first attempt.
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// SkipValidation loads documents kin-openapi would reject.
	SkipValidation bool
	// HTTPClient overrides the client used for URL inputs.
	HTTPClient *http.Client
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithSkipValidation(skip bool) Option { return func(s *Settings) { s.SkipValidation = skip } }
func WithHTTPClient(c *http.Client) Option { return func(s *Settings) { s.HTTPClient = c } }

// CheckExtension rejects inputs whose file name does not end in a supported
// extension. For URLs only the path is considered.
func CheckExtension(input string) error {
	name := input
	if u, ok := httpURL(input); ok {
		name = u.Path
	}
	ext := strings.ToLower(path.Ext(filepath.ToSlash(name)))
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return &spec.Error{
		Code:     spec.ValidationError,
		Message:  fmt.Sprintf("unsupported file extension %q (expected one of %s)", ext, strings.Join(SupportedExtensions, ", ")),
		Location: input,
	}
}

// LoadDocument reads a document from a file path or an http(s) URL and
// returns it in declaration order. Swagger 2.0 documents are converted to
// OpenAPI 3 first.
func LoadDocument(ctx context.Context, input string, opts ...Option) (*spec.Document, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &spec.Error{Code: spec.ValidationError, Message: "no document given"}
	}
	if err := CheckExtension(input); err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	data, location, err := read(ctx, input, settings)
	if err != nil {
		return nil, err
	}
	return parse(ctx, data, location, input, settings)
}

// ParseDocument parses in-memory bytes. location resolves relative external
// references and may be nil.
func ParseDocument(ctx context.Context, data []byte, location *url.URL, opts ...Option) (*spec.Document, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	name := "<memory>"
	if location != nil {
		name = location.String()
	}
	return parse(ctx, data, location, name, settings)
}

// ValidateDocument loads a document with validation enabled and discards it.
func ValidateDocument(ctx context.Context, input string, opts ...Option) error {
	opts = append(opts, WithSkipValidation(false))
	_, err := LoadDocument(ctx, input, opts...)
	return err
}

func parse(ctx context.Context, data []byte, location *url.URL, name string, settings Settings) (*spec.Document, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, parseError(name, "decode document", err)
	}
	version, err := specVersion(root)
	if err != nil {
		return nil, parseError(name, "detect version", err)
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx

	var doc *openapi3.T
	switch version {
	case 2:
		doc, err = convertV2ToV3(data)
		if err != nil {
			return nil, parseError(name, "convert swagger 2.0", err)
		}
		if err := loader.ResolveRefsIn(doc, location); err != nil {
			return nil, parseError(name, "resolve references", err)
		}
	default:
		if location != nil {
			doc, err = loader.LoadFromDataWithPath(data, location)
		} else {
			doc, err = loader.LoadFromData(data)
		}
		if err != nil {
			return nil, parseError(name, "load document", err)
		}
	}

	if !settings.SkipValidation {
		if err := doc.Validate(ctx); err != nil {
			pe := parseError(name, "invalid document", err)
			pe.Pointer = extractJSONPointer(err)
			return nil, pe
		}
	}

	return adapt(doc, indexKeyOrder(root)), nil
}

// convertV2ToV3 decodes Swagger 2.0 bytes, YAML or JSON, and converts them.
// openapi2.T only implements JSON decoding, so YAML is translated first.
func convertV2ToV3(data []byte) (*openapi3.T, error) {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(raw, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func parseError(location, what string, err error) *spec.Error {
	return &spec.Error{
		Code:     spec.DocumentParseError,
		Message:  fmt.Sprintf("%s: %v", what, err),
		Location: location,
		Cause:    err,
	}
}

func httpURL(input string) (*url.URL, bool) {
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return nil, false
	}
	scheme := strings.ToLower(u.Scheme)
	return u, scheme == "http" || scheme == "https"
}

// read returns the document bytes and the location external references
// resolve against.
func read(ctx context.Context, input string, settings Settings) ([]byte, *url.URL, error) {
	if u, ok := httpURL(input); ok {
		data, err := fetchWithRetry(ctx, input, settings)
		if err != nil {
			return nil, nil, &spec.Error{
				Code:     spec.DocumentParseError,
				Message:  fmt.Sprintf("fetch %s: %v", input, err),
				Location: input,
				Cause:    err,
			}
		}
		return data, u, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, nil, parseError(input, "resolve path", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, parseError(abs, "read file", err)
	}
	return data, &url.URL{Path: filepath.ToSlash(abs)}, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := settings.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: settings.HTTPTimeout}
	}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := 1
	if settings.MaxRetries > 0 {
		attempts += settings.MaxRetries
	}
	for i := 0; i < attempts; i++ {
		body, retry, err := fetchOnce(ctx, client, rawURL)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

// fetchOnce performs one GET and reports whether a failure is transient.
func fetchOnce(ctx context.Context, client *http.Client, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		return body, false, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("transient http error %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return nil, false, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	var me openapi3.MultiError
	if errors.As(err, &me) && len(me) > 0 {
		return extractJSONPointer(me[0])
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}
