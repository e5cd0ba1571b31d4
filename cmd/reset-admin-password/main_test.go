package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedReset struct {
	username, password string
	calls              int
}

func (r *recordedReset) reset(_ context.Context, username, password string) error {
	r.calls++
	r.username, r.password = username, password
	return nil
}

func execute(t *testing.T, rec *recordedReset, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(rec.reset)
	// a nil slice makes cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPasswordFromStdin(t *testing.T) {
	t.Setenv(passwordEnv, "")
	rec := &recordedReset{}

	out, err := execute(t, rec, "s3cret-pass\r\nignored\n", "--username", "editor", "--password-stdin")
	require.NoError(t, err)
	assert.Equal(t, "editor", rec.username)
	assert.Equal(t, "s3cret-pass", rec.password)
	assert.Contains(t, out, "Password updated for editor")
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv(passwordEnv, "from-env-pass")
	rec := &recordedReset{}

	_, err := execute(t, rec, "", "-u", "editor")
	require.NoError(t, err)
	assert.Equal(t, "from-env-pass", rec.password)
}

func TestMissingPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")
	rec := &recordedReset{}

	_, err := execute(t, rec, "", "--username", "editor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), passwordEnv)

	_, err = execute(t, rec, "\n", "--username", "editor", "--password-stdin")
	assert.Error(t, err)
	assert.Zero(t, rec.calls)
}

func TestUsernameRequired(t *testing.T) {
	t.Setenv(passwordEnv, "from-env-pass")
	rec := &recordedReset{}

	_, err := execute(t, rec, "")
	assert.Error(t, err)

	_, err = execute(t, rec, "", "--username", "editor", "--password", "argv-pass")
	assert.Error(t, err, "passwords are not accepted on the command line")
	assert.Zero(t, rec.calls)
}
