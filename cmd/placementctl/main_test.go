package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"roster.csv": "Sl .no,Reg.no,Name\n1,R01,SOUJANYA M BHAT\n2,R02,ANSON THOMAS\n60,R60,KISHAN KUMAR\n",
		"ledger.csv": "record_id,company_id,company_name,campus_type,pr_assigned,pr_name,placement_origin,status,noof_students_placed,role,package,student_names,class_distribution\n" +
			"1,CMP01,Acme,On Campus,PR01,,CPCG,Completed,2,Developer,6 LPA,\"Anson Thomas, Soujanya M Bhat\",\n",
		"ANALYSIS/CMP01.csv": "Name of the Student,Applied,Round1,Selected\nSOUJANYA M BHAT,1,1,1\nANSON THOMAS,1,1,1\nKISHAN KUMAR,1,0,0\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, dir string, args ...string) ([]byte, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--roster", filepath.Join(dir, "roster.csv"),
		"--ledger", filepath.Join(dir, "ledger.csv"),
		"--analysis-dir", filepath.Join(dir, "ANALYSIS"),
		"--analysis-file", filepath.Join(dir, "missing-sheet.csv"),
	}, args...))
	err := cmd.Execute()
	return out.Bytes(), err
}

func TestDashboardCommand(t *testing.T) {
	dir := writeFixtures(t)
	out, err := run(t, dir, "dashboard")
	require.NoError(t, err)

	var summary struct {
		TotalStudents int            `json:"total_students"`
		TotalPlaced   int            `json:"total_placed"`
		ClassCounts   map[string]int `json:"class_counts"`
	}
	require.NoError(t, json.Unmarshal(out, &summary))
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 2, summary.TotalPlaced)
	assert.Equal(t, map[string]int{"MCA A": 2}, summary.ClassCounts)
}

func TestFunnelCommand(t *testing.T) {
	dir := writeFixtures(t)
	out, err := run(t, dir, "funnel", "CMP01")
	require.NoError(t, err)

	var funnel struct {
		CompanyID     string `json:"company_id"`
		CompanyName   string `json:"company_name"`
		TotalApplied  int    `json:"total_applied"`
		TotalSelected int    `json:"total_selected"`
	}
	require.NoError(t, json.Unmarshal(out, &funnel))
	assert.Equal(t, "CMP01", funnel.CompanyID)
	assert.Equal(t, "Acme", funnel.CompanyName)
	assert.Equal(t, 3, funnel.TotalApplied)
	assert.Equal(t, 2, funnel.TotalSelected)
}

func TestResolveCommand(t *testing.T) {
	dir := writeFixtures(t)

	out, err := run(t, dir, "resolve", "kumar", "kishan")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"reg_no": "R60"`)

	out, err = run(t, dir, "resolve", "R60")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name": "KISHAN KUMAR"`)

	// one shared word is not enough against a two-word roster name
	_, err = run(t, dir, "resolve", "kishan")
	assert.Error(t, err)

	_, err = run(t, dir, "resolve", "nobody", "here")
	assert.Error(t, err)
}

func TestMatchCommandReportsMissingSheet(t *testing.T) {
	dir := writeFixtures(t)
	_, err := run(t, dir, "match")
	assert.Error(t, err)
}

func TestExportCommandWritesFile(t *testing.T) {
	dir := writeFixtures(t)
	storage := filepath.Join(dir, "exports")

	out, err := run(t, dir, "export", "--type", "students", "--format", "csv", "--storage-dir", storage)
	require.NoError(t, err)
	var result struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(out, &result))
	assert.NotEmpty(t, result.URL)

	matches, err := filepath.Glob(filepath.Join(storage, "students", "*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	out, err = run(t, dir, "export", "cleanup", "--storage-dir", storage, "--older-than", "1h")
	require.NoError(t, err)
	assert.JSONEq(t, `{"removed":[]}`, string(out))
}
