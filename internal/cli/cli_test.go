package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobeval/internal/identity/registrytest"
	"jobeval/internal/jwttoken"
)

const acceptedJSON = `{
  "applicant": {"age": 30, "identity_number": "AZE1"},
  "tech_stack": ["C#", "RabbitMQ", "Microservice", "Visual Studio"],
  "years_of_experience": 15
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return strings.TrimSpace(out.String()), err
}

func writeApplication(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestEvaluateFromFileWithStaticValidator(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeApplication(t, "app.json", acceptedJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "valid identity", args: []string{"--valid"}, want: "auto_accepted"},
		{name: "invalid identity", args: nil, want: "transferred_to_hr"},
		{name: "other country", args: []string{"--valid", "--country", "Georgia"}, want: "transferred_to_cto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"evaluate", "--file", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvaluateStaticCountryFollowsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBEVAL_IDENTITY_OFFICE_COUNTRY", "Georgia")
	path := writeApplication(t, "app.json", acceptedJSON)

	out, err := run(t, "evaluate", "--file", path, "--valid")
	require.NoError(t, err)
	assert.Equal(t, "transferred_to_cto", out)

	out, err = run(t, "evaluate", "--file", path, "--valid", "--country", "Azerbaijan")
	require.NoError(t, err)
	assert.Equal(t, "auto_accepted", out)
}

func TestEvaluateFromYAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeApplication(t, "app.yaml", `
applicant:
  age: 17
  identity_number: AZE1
tech_stack: [C#]
years_of_experience: 20
`)

	out, err := run(t, "evaluate", "-f", path, "--valid")
	require.NoError(t, err)
	assert.Equal(t, "auto_rejected", out)
}

func TestEvaluateRejectsInvalidFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeApplication(t, "app.json", `{"applicant": {"age": 30}, "years_of_experience": -1}`)

	_, err := run(t, "evaluate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "years_of_experience")
}

func TestEvaluateRequiresExactlyOneSource(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "evaluate")
	require.Error(t, err)

	_, err = run(t, "evaluate", "--file", "app.json", "--interactive")
	require.Error(t, err)
}

func TestEvaluateAgainstRegistry(t *testing.T) {
	t.Chdir(t.TempDir())
	registry := registrytest.NewServer(t, registrytest.WithIdentity("AZE1", true))
	t.Setenv("JOBEVAL_REGISTRY_BASE_URL", registry.URL)
	path := writeApplication(t, "app.json", acceptedJSON)

	out, err := run(t, "evaluate", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "auto_accepted", out)
	assert.Equal(t, 1, registry.Lookups())
}

func TestCheckConnection(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "check-connection")
	require.NoError(t, err)
	assert.Equal(t, "reachable", out, "static validator is always reachable")

	registry := registrytest.NewServer(t)
	t.Setenv("JOBEVAL_REGISTRY_BASE_URL", registry.URL)

	out, err = run(t, "check-connection")
	require.NoError(t, err)
	assert.Equal(t, "reachable", out)

	registry.SetHealthy(false)
	out, err = run(t, "check-connection")
	require.ErrorIs(t, err, errUnreachable)
	assert.Equal(t, "unreachable", out)
}

func TestIssueToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBEVAL_AUTH_JWT_SIGNING_KEY", "cli-secret")

	out, err := run(t, "issue-token", "--subject", "ats", "--ttl", "30m")
	require.NoError(t, err)

	claims, err := jwttoken.NewService("cli-secret", "jobeval", "jobeval-api").ValidateToken(out)
	require.NoError(t, err)
	assert.Equal(t, "ats", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueTokenWithoutSigningKey(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "issue-token", "--subject", "ats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_signing_key")
}

func TestSplitStack(t *testing.T) {
	assert.Equal(t, []string{"C#", "Visual Studio"}, splitStack(" C#, ,Visual Studio ,"))
	assert.Nil(t, splitStack(""))
}

func TestValidateNonNegative(t *testing.T) {
	assert.NoError(t, validateNonNegative(" 12 "))
	assert.Error(t, validateNonNegative("-1"))
	assert.Error(t, validateNonNegative("twelve"))
}
