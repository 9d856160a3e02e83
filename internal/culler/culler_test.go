package culler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/shelf/internal/culler"
	"github.com/nikbrunner/shelf/internal/model"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusGone) })
	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLinks(t *testing.T) {
	srv := newServer(t)
	existing := filepath.Join(t.TempDir(), "present.txt")
	assert.NilError(t, os.WriteFile(existing, []byte("x"), 0644))

	tree := model.NewTree()
	docs, err := model.NewFolder(model.NewFolderParams{Name: "Docs"})
	assert.NilError(t, err)
	e, err := model.NewEntry(model.NewEntryParams{
		Name:  "mixed",
		Links: []string{srv.URL + "/ok", srv.URL + "/gone", srv.URL + "/error"},
	})
	assert.NilError(t, err)
	docs.AddEntry(e)
	files, err := model.NewEntry(model.NewEntryParams{
		Name:  "files",
		Links: []string{"file://" + existing, "file:///definitely/not/here.txt"},
	})
	assert.NilError(t, err)
	tree.Root.AddEntry(files)
	tree.Root.AddFolder(docs)

	targets := culler.CollectTargets(tree)
	assert.Assert(t, is.Len(targets, 5))
	assert.Equal(t, targets[2].PathDisplay, "Root / Docs")

	progress := 0
	results := culler.CheckLinks(context.Background(), targets, culler.Options{
		Concurrency: 3,
		Timeout:     5 * time.Second,
		OnProgress:  func(completed, total int) { progress = completed },
	})
	assert.Equal(t, progress, 5)

	statuses := make([]culler.Status, len(results))
	for i, r := range results {
		statuses[i] = r.Status
	}
	assert.DeepEqual(t, statuses, []culler.Status{
		culler.Healthy, culler.Dead, culler.Healthy, culler.Dead, culler.Unreachable,
	})
	assert.Equal(t, results[4].Error, "Internal Server Error")

	groups := culler.GroupResults(results)
	assert.Assert(t, is.Len(groups, 2))
	assert.Equal(t, groups[0].Label, "Dead")
	assert.Check(t, is.Len(groups[0].Results, 2))
}

func TestCheckLinks_ExcludedDomain(t *testing.T) {
	srv := newServer(t)
	results := culler.CheckLinks(context.Background(), []culler.Target{{Link: srv.URL + "/gone"}}, culler.Options{
		Timeout:        5 * time.Second,
		ExcludeDomains: []string{"127.0.0.1"},
	})
	assert.Equal(t, results[0].Status, culler.Unreachable)
	assert.Equal(t, results[0].Error, "Possibly private (auth required)")
}

func TestCheckLinks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := culler.CheckLinks(ctx, []culler.Target{{Link: "https://example.com"}}, culler.Options{Concurrency: 1})
	assert.Equal(t, results[0].Status, culler.Unreachable)
	assert.Equal(t, results[0].Error, "Cancelled")
}
