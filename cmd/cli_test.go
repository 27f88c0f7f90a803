package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, home string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func newLoginServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			require.NoError(t, r.ParseForm())
			if r.Form.Get("password") != "pw1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{"access_token":%q}`, token)
		case "/api/3/timetable/actual":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"Teachers": [{"Id": "t1", "Name": "Bob"}],
				"Hours": [{"Id": 1, "BeginTime": "08:00", "EndTime": "08:45"}],
				"Subjects": [{"Id": "1 ", "Name": "Math"}],
				"Days": [{"Date": "2024-01-08", "Atoms": [{"HourId": 1, "TeacherId": "t1", "SubjectId": "1"}]}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	t.Setenv("BS_API_BASE_URL", server.URL)

	return server
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestStatusLoggedOutByDefault(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: logged_out")
	assert.Contains(t, stdout, "authenticated: false")
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	stdout, _, err := executeCLI(t, home, "", "login", "--username", "alice", "--password", "pw1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in")

	// A fresh invocation rehydrates from the persisted snapshot.
	stdout, _, err = executeCLI(t, home, "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: logged_in")
	assert.Contains(t, stdout, "authenticated: true")

	sessionFile := filepath.Join(home, ".betterschedule", "session.toml")
	data, err := os.ReadFile(sessionFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc.def.ghi")
}

func TestConfigFileSecretsDirTakesEffect(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	secretsDir := filepath.Join(home, "vault")
	configDir := filepath.Join(home, ".betterschedule")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	config := fmt.Sprintf("[secrets]\ndir = %q\n", secretsDir)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))

	_, _, err := executeCLI(t, home, "", "login", "--username", "alice", "--password", "pw1")
	require.NoError(t, err)

	entries, err := os.ReadDir(secretsDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"username", "password"}, names)

	// The default location must stay empty once the file redirects it.
	_, err = os.Stat(filepath.Join(configDir, "secrets"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoginPromptsForPasswordOnStdin(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	stdout, _, err := executeCLI(t, home, "pw1\n", "login", "--username", "alice")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Password:")
	assert.Contains(t, stdout, "Logged in")
}

func TestLoginFailureSurfacesInvalidCredentials(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	_, _, err := executeCLI(t, home, "", "login", "--username", "alice", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	stdout, _, err := executeCLI(t, home, "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: logged_out")
}

func TestTimetableRequiresLogin(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "", "timetable")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestTimetableRendersSchedule(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	_, _, err := executeCLI(t, home, "", "login", "--username", "alice", "--password", "pw1")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "", "timetable")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Math")
	assert.Contains(t, stdout, "Bob")
	assert.Contains(t, stdout, "08:00-08:45")
}

func TestLogoutIsIdempotentFromCLI(t *testing.T) {
	home := t.TempDir()
	newLoginServer(t, "abc.def.ghi")

	_, _, err := executeCLI(t, home, "", "login", "--username", "alice", "--password", "pw1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		stdout, _, err := executeCLI(t, home, "", "logout")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Logged out")
	}

	stdout, _, err := executeCLI(t, home, "", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: logged_out")
}
