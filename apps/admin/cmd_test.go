package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/epistula/epistula-go/client"
	"github.com/epistula/epistula-go/datatransfer"
	"github.com/epistula/epistula-go/prefs"
	testutil "github.com/epistula/epistula-go/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Backend, *bytes.Buffer) {
	t.Helper()

	backend := testutil.NewBackend(t)
	conf := testutil.NewConfig(t, backend)

	apiClient := client.New(conf, nil, nil, &client.Options{
		Token: testutil.Token(t, time.Now().Add(time.Hour)),
	})
	prefStore, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	var out bytes.Buffer
	cli := &commandLine{
		conf:     conf,
		client:   apiClient,
		transfer: datatransfer.NewService(apiClient),
		prefs:    prefStore,
		stdout:   &out,
	}
	return cli, backend, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func Test_commandLine_usage(t *testing.T) {
	tests := []cliTest{
		{name: "no subcommand", args: []string{}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no username", args: []string{"login"}, wantErr: errHelp},
		{name: "export: no output file", args: []string{"export"}, wantErr: errHelp},
		{name: "import: no file", args: []string{"import"}, wantErr: errHelp},
		{name: "backup: no dir", args: []string{"backup"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := setup(t)
			err := cli.run(append([]string{"epistula-admin"}, tt.args...))
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	cli, _, out := setup(t)
	cli.client.SetToken("") // start logged out

	readPasswordFunc = func(int) ([]byte, error) { return []byte(testutil.TestPassword), nil }
	defer func() { readPasswordFunc = term.ReadPassword }()

	err := cli.run([]string{"epistula-admin", "login", "-username", testutil.TestUsername})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "logged in as "+testutil.TestUsername)

	// token was persisted
	data, err := os.ReadFile(cli.conf.TokenPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func Test_commandLine_loginEmptyPassword(t *testing.T) {
	cli, _, _ := setup(t)

	readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
	defer func() { readPasswordFunc = term.ReadPassword }()

	err := cli.run([]string{"epistula-admin", "login", "-username", testutil.TestUsername})
	assert.Equal(t, errHelp, err)
}

func Test_commandLine_whoami(t *testing.T) {
	cli, _, out := setup(t)

	err := cli.run([]string{"epistula-admin", "whoami"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "username: "+testutil.TestUsername)
	assert.Contains(t, out.String(), "roles:    [root]")
	assert.Contains(t, out.String(), "token:    valid until")
}

func Test_commandLine_exportAndImport(t *testing.T) {
	cli, backend, out := setup(t)
	backend.StubSnapshot("production", `{"universities":[{"name":"MIT"}],"users":[]}`)
	file := filepath.Join(t.TempDir(), "snap.json")

	err := cli.run([]string{"epistula-admin", "export", "-o", file, "-schema", "production"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "exported production snapshot")

	env, err := datatransfer.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "MIT", env.Snapshot.Universities[0].Name)

	out.Reset()
	err = cli.run([]string{"epistula-admin", "import", "-f", file, "-schema", "temp", "-strategy", "overwrite"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "import done: 1 created")
}

func Test_commandLine_importDryRun(t *testing.T) {
	cli, backend, out := setup(t)
	backend.StubSnapshot("production", `{"universities":[{"name":"MIT"}],"users":[]}`)
	file := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, cli.run([]string{"epistula-admin", "export", "-o", file, "-schema", "production"}))

	out.Reset()
	err := cli.run([]string{"epistula-admin", "import", "-f", file, "-dry-run"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "snapshot matches production; nothing to import")
}

func Test_commandLine_importMissingFile(t *testing.T) {
	cli, _, _ := setup(t)

	err := cli.run([]string{"epistula-admin", "import", "-f", filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, err)
	assert.NotEqual(t, errHelp, err)
}

func Test_commandLine_backup(t *testing.T) {
	cli, backend, out := setup(t)
	backend.StubSnapshot("production", `{"universities":[],"users":[]}`)
	dir := t.TempDir()

	err := cli.run([]string{"epistula-admin", "backup", "-dir", dir})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "backup written to "+dir)
}

func Test_commandLine_favorites(t *testing.T) {
	cli, _, out := setup(t)

	require.NoError(t, cli.run([]string{"epistula-admin", "favorites"}))
	assert.Contains(t, out.String(), "no favorites")

	out.Reset()
	require.NoError(t, cli.run([]string{"epistula-admin", "favorites", "-toggle", "subject:42"}))
	assert.Contains(t, out.String(), "added subject:42 to favorites")

	out.Reset()
	require.NoError(t, cli.run([]string{"epistula-admin", "favorites"}))
	assert.Contains(t, out.String(), "subject:42")

	out.Reset()
	require.NoError(t, cli.run([]string{"epistula-admin", "favorites", "-toggle", "subject:42"}))
	assert.Contains(t, out.String(), "removed subject:42 from favorites")

	err := cli.run([]string{"epistula-admin", "favorites", "-toggle", "nonsense"})
	assert.ErrorContains(t, err, "want KIND:ID")
}
