package publisher

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/specgate/specgate/differ"
)

// ErrPublish is the sentinel wrapped by every GitHub interaction failure.
var ErrPublish = errors.New("publish failed")

// ErrFileNotFound indicates the requested repository file does not exist
// on the requested ref.
var ErrFileNotFound = errors.New("file not found")

const (
	defaultBaseURL = "https://api.github.com"
	commentsPage   = 100
)

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used against
// GitHub Enterprise instances and in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the token-authenticated client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for the "owner/name" repository, authenticated with
// the given token.
func New(ctx context.Context, token, repository string, opts ...Option) (*Client, error) {
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("%w: repository must be \"owner/name\", got %q", ErrPublish, repository)
	}
	c := &Client{
		baseURL: defaultBaseURL,
		owner:   owner,
		repo:    name,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		if token == "" {
			return nil, fmt.Errorf("%w: token is required", ErrPublish)
		}
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		c.httpClient = oauth2.NewClient(ctx, src)
	}
	return c, nil
}

type issueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// PublishReport posts the markdown report to the pull request, replacing
// the previous report comment when one exists.
func (c *Client) PublishReport(ctx context.Context, prNumber int, body string) error {
	existing, err := c.findReportComment(ctx, prNumber)
	if err != nil {
		return err
	}
	payload := map[string]string{"body": body}
	if existing != nil {
		path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", c.owner, c.repo, existing.ID)
		return c.send(ctx, http.MethodPatch, path, payload, nil)
	}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", c.owner, c.repo, prNumber)
	return c.send(ctx, http.MethodPost, path, payload, nil)
}

// findReportComment scans the pull request's comments for the one carrying
// the report header.
func (c *Client) findReportComment(ctx context.Context, prNumber int) (*issueComment, error) {
	for page := 1; ; page++ {
		path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments?per_page=%d&page=%d",
			c.owner, c.repo, prNumber, commentsPage, page)
		var comments []issueComment
		if err := c.send(ctx, http.MethodGet, path, nil, &comments); err != nil {
			return nil, err
		}
		for i := range comments {
			if strings.HasPrefix(comments[i].Body, differ.MarkdownHeader) {
				return &comments[i], nil
			}
		}
		if len(comments) < commentsPage {
			return nil, nil
		}
	}
}

type repoContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// BaseBranchFile fetches a file's contents from the given ref. An empty
// ref means the repository's default branch. Returns ErrFileNotFound when
// the path does not exist on that ref.
func (c *Client) BaseBranchFile(ctx context.Context, path, ref string) (string, error) {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, strings.Join(segments, "/"))
	if ref != "" {
		reqPath += "?ref=" + url.QueryEscape(ref)
	}
	var content repoContent
	if err := c.send(ctx, http.MethodGet, reqPath, nil, &content); err != nil {
		if errors.Is(err, errNotFound) {
			return "", fmt.Errorf("%w: %s@%s", ErrFileNotFound, path, ref)
		}
		return "", err
	}
	if content.Encoding != "base64" {
		return content.Content, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s: %w", ErrPublish, path, err)
	}
	return string(decoded), nil
}

var errNotFound = errors.New("not found")

// send performs one API call, encoding payload as the JSON request body
// when non-nil and decoding the response into out when non-nil.
func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encoding request: %w", ErrPublish, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrPublish, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s: %w", ErrPublish, method, path, errNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			ErrPublish, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %w", ErrPublish, err)
		}
	}
	return nil
}
