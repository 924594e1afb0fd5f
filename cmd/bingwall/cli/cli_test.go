package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/bingwall/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRoot(t *testing.T) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCommand(VersionInfo{Version: "1.2.3", Commit: "abc"})
	root.AddCommand(NewVersionCommand())
	root.AddCommand(NewConfigCommand())
	root.AddCommand(NewLedgerCommand())
	return root
}

func execute(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeConfig stores a config file that points the resolvers at srv.
func writeConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	cfg := config.GetDefault()
	cfg.Source.Scrape.PageURL = srv.URL + "/"
	cfg.Source.Scrape.Origin = srv.URL
	cfg.Source.API.Endpoint = srv.URL + "/api"
	cfg.Log.NoTerminal = true
	cfg.Log.File = filepath.Join(t.TempDir(), "bingwall.log")

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><head><meta property="og:image" content="/th?id=OHR.Cli_EN1&amp;w=1920"></head></html>`)
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"url": "%s/th?id=OHR.Idx%s_EN1", "copyright": "c", "start_date": "20240105"}`, srv.URL, r.URL.Query().Get("index"))
	})
	mux.HandleFunc("/th", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "bytes-of-"+r.URL.Query().Get("id"))
	})
	return srv
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, newTestRoot(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.abc\n", out)
}

func TestConfigGenerateCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, newTestRoot(t), "config", "generate", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, config.GetDefault(), cfg)

	out, err = execute(t, newTestRoot(t), "config", "generate", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipping")
}

func TestRootCommand(t *testing.T) {
	srv := newProvider(t)
	cfgPath := writeConfig(t, srv)
	dir := t.TempDir()
	saveDir := filepath.Join(dir, "walls")
	database := filepath.Join(dir, "history.db")

	_, err := execute(t, newTestRoot(t), "--config", cfgPath, "-f", saveDir, "--database", database)
	require.NoError(t, err)

	entries, err := os.ReadDir(saveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `_OHR\.Cli_EN1$`, entries[0].Name())

	_, err = execute(t, newTestRoot(t), "--config", cfgPath, "-f", saveDir, "--database", database,
		"--use-api", "--index", "2", "--region", "en-US")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(saveDir, "2024-01-05_OHR.Idx2_EN1"))

	out, err := execute(t, newTestRoot(t), "--config", cfgPath, "--database", database, "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-05_OHR.Idx2_EN1")
	assert.Contains(t, out, entries[0].Name())

	out, err = execute(t, newTestRoot(t), "--config", cfgPath, "--database", database, "ledger", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Records: 2")

	out, err = execute(t, newTestRoot(t), "--config", cfgPath, "--database", database, "ledger", "rollback")
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back migration 001")
}

func TestRootCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, srv)
	dir := t.TempDir()

	_, err := execute(t, newTestRoot(t), "--config", cfgPath, "-f", filepath.Join(dir, "walls"), "--database", filepath.Join(dir, "h.db"))
	assert.Error(t, err)

	_, err = execute(t, newTestRoot(t), "--config", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
