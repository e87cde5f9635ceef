package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/claragordon/crawlspace"
	main "github.com/claragordon/crawlspace/cmd/crawlspace"
	"github.com/claragordon/crawlspace/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "crawlspace")
	assert.Contains(t, stdout.String(), "seeds")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--workers", "0", "https://example.com"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, crawlspace.EINVALID, crawlspace.ErrorCode(err))
}

// crawlServer serves a small two-page site for end-to-end CLI tests.
func crawlServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Home</title></head><body><a href="/about">About</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>About</title></head><body></body></html>`))
	})
	return srv
}

func TestMain_Run_CrawlsAndPrintsJSON(t *testing.T) {
	t.Parallel()

	srv := crawlServer(t)
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"--max-depth", "1",
		"--rate-capacity", "10",
		"--rate-per-second", "100",
		srv.URL + "/",
	}, &stdout, &stderr)
	require.NoError(t, err)

	var result map[string]*crawlspace.PageResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "Home", result[srv.URL+"/"].Title)
	assert.Equal(t, "About", result[srv.URL+"/about"].Title)
	assert.Contains(t, stderr.String(), "crawled 2 pages (0 failed)")
}

func TestMain_Run_WritesOutputFile(t *testing.T) {
	t.Parallel()

	srv := crawlServer(t)
	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "result.json")

	err := m.Run(context.Background(), []string{
		"--max-depth", "0",
		"--out", out,
		srv.URL + "/",
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var result map[string]*crawlspace.PageResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result, 1)
}

func TestMain_Run_ArchivesToDatabase(t *testing.T) {
	t.Parallel()

	srv := crawlServer(t)
	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	err := m.Run(context.Background(), []string{
		"--max-depth", "1",
		"--db", dbPath,
		srv.URL + "/",
	}, &stdout, &stderr)
	require.NoError(t, err)

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	var count int
	err = db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM pages").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
