package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/differ"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(context.Background(), "test-token", "acme/petstore",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestNewValidation(t *testing.T) {
	_, err := New(context.Background(), "tok", "not-a-repo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublish)

	_, err = New(context.Background(), "", "acme/petstore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestPublishReportCreates(t *testing.T) {
	var created string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "body": "unrelated comment"}]`))
	})
	mux.HandleFunc("POST /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		created = payload["body"]
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, mux)
	report := differ.MarkdownHeader + "\n\nNo changes detected."
	require.NoError(t, client.PublishReport(context.Background(), 7, report))
	assert.Equal(t, report, created)
}

func TestPublishReportUpdatesExisting(t *testing.T) {
	var updated string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		comments := fmt.Sprintf(`[
			{"id": 10, "body": "looks good"},
			{"id": 11, "body": %q}
		]`, differ.MarkdownHeader+"\n\nold report")
		_, _ = w.Write([]byte(comments))
	})
	mux.HandleFunc("PATCH /repos/acme/petstore/issues/comments/11", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		updated = payload["body"]
	})
	mux.HandleFunc("POST /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		t.Error("must update the existing comment, not create a new one")
	})

	client := newTestClient(t, mux)
	report := differ.MarkdownHeader + "\n\nnew report"
	require.NoError(t, client.PublishReport(context.Background(), 7, report))
	assert.Equal(t, report, updated)
}

func TestPublishReportPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			// A full page forces a second request.
			comments := make([]issueComment, commentsPage)
			for i := range comments {
				comments[i] = issueComment{ID: int64(i), Body: "chatter"}
			}
			require.NoError(t, json.NewEncoder(w).Encode(comments))
			return
		}
		comments := []issueComment{{ID: 500, Body: differ.MarkdownHeader + "\n\nold"}}
		require.NoError(t, json.NewEncoder(w).Encode(comments))
	})
	var patched bool
	mux.HandleFunc("PATCH /repos/acme/petstore/issues/comments/500", func(w http.ResponseWriter, r *http.Request) {
		patched = true
	})

	client := newTestClient(t, mux)
	require.NoError(t, client.PublishReport(context.Background(), 7, differ.MarkdownHeader+"\n\nnew"))
	assert.True(t, patched)
}

func TestPublishReportSurfacesAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/petstore/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "rate limited"}`))
	})

	client := newTestClient(t, mux)
	err := client.PublishReport(context.Background(), 7, "report")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublish)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestBaseBranchFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/petstore/contents/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		encoded := base64.StdEncoding.EncodeToString([]byte("info:\n  title: Pets\n"))
		require.NoError(t, json.NewEncoder(w).Encode(repoContent{Content: encoded, Encoding: "base64"}))
	})

	client := newTestClient(t, mux)
	content, err := client.BaseBranchFile(context.Background(), "openapi.yaml", "main")
	require.NoError(t, err)
	assert.Equal(t, "info:\n  title: Pets\n", content)
}

func TestBaseBranchFileNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	_, err := client.BaseBranchFile(context.Background(), "missing.yaml", "main")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
