package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"signup-service/internal/domain/signup"
	"signup-service/internal/service/advisor"
	"signup-service/internal/service/navigation"
	"signup-service/internal/service/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(bytes.NewBufferString(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResolveRedirectsWithoutProduct(t *testing.T) {
	out, err := run(t, "", "resolve", "--flow", "private", "--step", "IDENTIFY")
	require.NoError(t, err)

	var res navigation.Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, signup.StepProductSelect, res.Step)
	assert.Equal(t, navigation.ReasonMissingProduct, res.Reason)
	require.NotNil(t, res.Redirect)
}

func TestResolveReadsStateFile(t *testing.T) {
	state := signup.InitialState(signup.CustomerTypeCompany)
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "case.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	out, err := run(t, "", "resolve", "--flow", "company", "--step", "GATEKEEPER", "--state", path)
	require.NoError(t, err)
	var res navigation.CompanyResolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, signup.CompanyStepProductSelect, res.Step)

	out, err = run(t, string(raw), "resolve", "--flow", "company", "--state", "-")
	require.NoError(t, err)
	var fresh navigation.CompanyResolution
	require.NoError(t, json.Unmarshal([]byte(out), &fresh))
	assert.Equal(t, signup.CompanyStepProductSelect, fresh.Step)
	assert.Nil(t, fresh.Redirect)
}

func TestResolveRejectsUnknownFlow(t *testing.T) {
	_, err := run(t, "", "resolve", "--flow", "business")
	assert.ErrorContains(t, err, "unknown flow")
}

func TestClassify(t *testing.T) {
	out, err := run(t, "", "classify",
		"--pnr", "199001011111", "--street", "Storgatan", "--number", "1",
		"--postal", "11122", "--city", "Stockholm", "--type", "LGH")
	require.NoError(t, err)

	var resp scenario.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, signup.ScenarioMove, resp.Scenario)

	_, err = run(t, "", "classify", "--pnr", "123")
	assert.Error(t, err)
}

func TestAdvise(t *testing.T) {
	out, err := run(t, "", "advise", "A", "A", "A", "A", "A")
	require.NoError(t, err)
	var rec advisor.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.NotEmpty(t, rec.Type)
	assert.NotEmpty(t, rec.Label)

	_, err = run(t, "", "advise", "A", "B")
	assert.Error(t, err)
}

func TestMigrateNeedsDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "", "migrate")
	assert.ErrorContains(t, err, "database URL is required")
}
