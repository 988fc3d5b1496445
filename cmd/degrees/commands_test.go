package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-degrees/pkg/auth"
	"github.com/dd0wney/cluso-degrees/pkg/config"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

const (
	testPeople = `id,name,birth
102,Kevin Bacon,1958
129,Tom Cruise,1962
158,Tom Hanks,1956
163,Dustin Hoffman,1937
193,Demi Moore,1962
914612,Emma Watson,1990
`
	testMovies = `id,title,year
112384,"Apollo 13",1995
104257,"A Few Good Men",1992
95953,"Rain Man",1988
`
	testStars = `person_id,movie_id
102,104257
102,112384
129,104257
129,95953
158,112384
163,95953
193,104257
`
)

// writeDataset writes a CSV dataset, with any extra people appended
func writeDataset(t *testing.T, extraPeople string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"people.csv": testPeople + extraPeople,
		"movies.csv": testMovies,
		"stars.csv":  testStars,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// resetCommandState restores every flag so commands can be executed
// repeatedly in one process
func resetCommandState(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDataDir, config.EnvSnapshot, config.EnvMaxDepth, config.EnvAddr, config.EnvLogLevel, config.EnvJWTSecret, config.EnvDatabaseURL} {
		t.Setenv(key, "")
	}
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, cmd := range []*cobra.Command{rootCmd, pathCmd, serveCmd, snapshotCmd, tuiCmd, tokenCmd, apiKeyCmd, importCmd} {
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	}
	dataDir = ""
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeWithEnv(t, nil, stdin, args...)
}

func executeWithEnv(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommandState(t)
	for k, v := range env {
		t.Setenv(k, v)
	}

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "degrees [directory]", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotNil(t, rootCmd.RunE)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.HasSubCommands())

	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"path", "serve", "snapshot", "tui", "token", "apikey", "import"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "snapshot", "database-url", "max-depth", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
	assert.NotNil(t, pathCmd.Flags().Lookup("json"))
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
}

func TestInteractive_Connected(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "Tom Cruise\nTom Hanks\n", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Loading data...\n")
	assert.Contains(t, out, "Data loaded.\n")
	assert.Contains(t, out, "2 degrees of separation.\n"+
		"1: Tom Cruise and Kevin Bacon starred in A Few Good Men\n"+
		"2: Kevin Bacon and Tom Hanks starred in Apollo 13\n")
	assert.Equal(t, 2, strings.Count(out, "Name: "))
}

func TestInteractive_NamesAreCaseInsensitive(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "  kevin bacon \nTOM HANKS\n", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 degrees of separation.\n1: Kevin Bacon and Tom Hanks starred in Apollo 13\n")
}

func TestInteractive_NotConnected(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "Kevin Bacon\nEmma Watson\n", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Not connected.\n")
}

func TestInteractive_MaxDepth(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "Tom Cruise\nTom Hanks\n", dir, "--max-depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Not connected.\n")
}

func TestInteractive_PersonNotFound(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "Kevin Bacn\n", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errPersonNotFound))
	assert.Contains(t, out, "Person not found.\n")
	assert.Contains(t, out, "Did you mean: Kevin Bacon?")
	assert.Equal(t, 1, strings.Count(out, "Name: "), "should stop after the first unknown name")
}

func TestInteractive_AmbiguousName(t *testing.T) {
	dir := writeDataset(t, "5000,Kevin Bacon,2001\n")

	t.Run("chosen", func(t *testing.T) {
		out, err := execute(t, "Kevin Bacon\n102\nTom Hanks\n", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Which 'Kevin Bacon'?\n")
		assert.Contains(t, out, "ID: 102, Name: Kevin Bacon, Birth: 1958\n")
		assert.Contains(t, out, "ID: 5000, Name: Kevin Bacon, Birth: 2001\n")
		assert.Contains(t, out, "Intended Person ID: ")
		assert.Contains(t, out, "1 degrees of separation.\n")
	})

	t.Run("invalid choice", func(t *testing.T) {
		out, err := execute(t, "Kevin Bacon\n129\n", dir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errPersonNotFound))
		assert.Contains(t, out, "Person not found.\n")
	})
}

func TestInteractive_MissingDirectory(t *testing.T) {
	_, err := execute(t, "", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.dir")
}

func TestTUICommand_MissingDirectory(t *testing.T) {
	_, err := execute(t, "", "tui", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.dir")
}

func TestPathCommand_JSON(t *testing.T) {
	dir := writeDataset(t, "")

	out, err := execute(t, "", "path", "129", "158", "--data", dir, "--json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Connected)
	assert.Equal(t, 2, rep.Degrees)
	require.Len(t, rep.Links, 2)
	assert.Equal(t, "104257", rep.Links[0].MovieID)
	assert.Equal(t, "102", rep.Links[0].ToID)
	assert.Equal(t, "158", rep.Links[1].ToID)
}

func TestPathCommand_UnknownPerson(t *testing.T) {
	dir := writeDataset(t, "")

	_, err := execute(t, "", "path", "129", "999", "--data", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, search.ErrUnknownPerson))
}

func TestSnapshotCommand(t *testing.T) {
	dir := writeDataset(t, "")
	snap := filepath.Join(t.TempDir(), "degrees.snap")

	out, err := execute(t, "", "snapshot", dir, snap)
	require.NoError(t, err)
	assert.Contains(t, out, "6 people, 3 movies, 7 credits")

	out, err = execute(t, "", "path", "129", "158", "--snapshot", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "2 degrees of separation.\n")
}

func TestSnapshotCommand_MissingDirectory(t *testing.T) {
	_, err := execute(t, "", "snapshot", filepath.Join(t.TempDir(), "missing"), "out.snap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot.directory")
}

func TestServerOptions(t *testing.T) {
	cfg := config.Default()

	opts, err := serverOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server.Addr, opts.Addr)
	assert.Equal(t, cfg.Server.ShutdownTimeout, opts.ShutdownTimeout)
	assert.Nil(t, opts.CORS)
	assert.Nil(t, opts.RateLimit)
	assert.Nil(t, opts.Auth)
	assert.Equal(t, config.DefaultGraphQLMaxDepth, opts.GraphQLMaxDepth)

	cfg.Server.CORSOrigins = []string{"https://example.com"}
	cfg.Server.RateLimit = config.RateLimitConfig{RequestsPerSecond: 3}

	cfg.Server.Auth.JWTSecret = strings.Repeat("s", 32)
	opts, err = serverOptions(cfg)
	require.NoError(t, err)
	require.NotNil(t, opts.Auth)
	require.NotNil(t, opts.CORS)
	assert.Equal(t, []string{"https://example.com"}, opts.CORS.AllowedOrigins)
	require.NotNil(t, opts.RateLimit)
	assert.Equal(t, 3.0, opts.RateLimit.RequestsPerSecond)
	assert.Equal(t, 40, opts.RateLimit.BurstSize)
}

func TestServerOptions_BadAPIKeyHash(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Auth.APIKeyHashes = []string{"not-a-hash"}

	_, err := serverOptions(cfg)
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	secret := strings.Repeat("s", 32)

	out, err := executeWithEnv(t, map[string]string{config.EnvJWTSecret: secret}, "", "token", "--subject", "dashboard")
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager(secret, time.Hour)
	require.NoError(t, err)
	claims, err := jwtManager.ValidateToken(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Subject)
	assert.Equal(t, auth.ScopeRead, claims.Scope)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	_, err := execute(t, "", "token", "--subject", "dashboard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvJWTSecret)
}

func TestAPIKeyCommand(t *testing.T) {
	out, err := execute(t, "", "apikey")
	require.NoError(t, err)

	var key, hash string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		label, value, _ := strings.Cut(line, ":")
		switch label {
		case "key":
			key = strings.TrimSpace(value)
		case "hash":
			hash = strings.TrimSpace(value)
		}
	}
	require.NotEmpty(t, key)
	require.NotEmpty(t, hash)

	validator, err := auth.NewAPIKeyValidator([]string{hash})
	require.NoError(t, err)
	_, err = validator.ValidateToken(context.Background(), key)
	assert.NoError(t, err)
}

func TestImportCommand_NoDatabase(t *testing.T) {
	dir := writeDataset(t, "")

	_, err := execute(t, "", "import", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvDatabaseURL)
}

func TestPathCommand_RejectsNonPostgresURL(t *testing.T) {
	_, err := execute(t, "", "path", "1", "2", "--database-url", "mysql://localhost/degrees")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.database_url")
}
