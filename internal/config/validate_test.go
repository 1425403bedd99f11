package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRun() Run {
	return Run{
		Job: "account_lookup",
		Source: Source{
			Kind: "csv",
			CSV:  SourceCSV{Path: "ids.csv"},
		},
		Query: Query{
			Table:     "ccb.accounts",
			IDColumn:  "acct_id",
			BatchSize: 500,
		},
		Storage: Storage{Kind: "postgres", DSN: "postgres://localhost/x"},
		Export: Export{
			Template: "report_template.xlsx",
			Output:   "output/results.xlsx",
		},
	}
}

func errorPaths(issues []Issue) []string {
	var paths []string
	for _, i := range issues {
		if i.Severity == SeverityError {
			paths = append(paths, i.Path)
		}
	}
	return paths
}

func TestValidateOK(t *testing.T) {
	assert.Empty(t, Validate(validRun()))
}

func TestValidateFindings(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Run)
		wantPath string
	}{
		{"empty job", func(r *Run) { r.Job = " " }, "job"},
		{"empty source kind", func(r *Run) { r.Source.Kind = "" }, "source.kind"},
		{"unknown source kind", func(r *Run) { r.Source.Kind = "xml" }, "source.kind"},
		{"csv path missing", func(r *Run) { r.Source.CSV.Path = "" }, "source.csv.path"},
		{"multichar delimiter", func(r *Run) { r.Source.CSV.Delimiter = ";;" }, "source.csv.delimiter"},
		{"zero batch size", func(r *Run) { r.Query.BatchSize = 0 }, "query.batch_size"},
		{"negative batch size", func(r *Run) { r.Query.BatchSize = -5 }, "query.batch_size"},
		{"empty table", func(r *Run) { r.Query.Table = "" }, "query.table"},
		{"empty id column", func(r *Run) { r.Query.IDColumn = "" }, "query.id_column"},
		{"bad escaping", func(r *Run) { r.Query.Escaping = "quoted" }, "query.escaping"},
		{"empty storage kind", func(r *Run) { r.Storage.Kind = "" }, "storage.kind"},
		{"empty output", func(r *Run) { r.Export.Output = "" }, "export.output"},
		{"template equals output", func(r *Run) { r.Export.Output = r.Export.Template }, "export.output"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRun()
			tc.mutate(&r)
			assert.Contains(t, errorPaths(Validate(r)), tc.wantPath)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	r := validRun()
	r.Storage.DSN = ""
	issues := Validate(r)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "storage.dsn", issues[0].Path)

	r = validRun()
	strict := false
	r.Query.Strict = &strict
	r.Query.Escaping = "literal"
	issues = Validate(r)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestValidateCSVOutputNeedsNoTemplate(t *testing.T) {
	r := validRun()
	r.Export.Template = ""
	r.Export.Output = "output/results.csv"
	assert.Empty(t, Validate(r))
}

func TestStrictEnabledDefault(t *testing.T) {
	var q Query
	assert.True(t, q.StrictEnabled())

	off := false
	q.Strict = &off
	assert.False(t, q.StrictEnabled())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"job": "account_lookup",
		"source": {"kind": "text", "text": {"path": "-"}},
		"query": {"table": "accounts", "id_column": "acct_id", "batch_size": 100, "strict": false},
		"storage": {"kind": "sqlite", "dsn": "accounts.db"},
		"export": {"template": "t.xlsx", "output": "o.xlsx"}
	}`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "account_lookup", r.Job)
	assert.Equal(t, 100, r.Query.BatchSize)
	assert.False(t, r.Query.StrictEnabled())
	assert.Empty(t, Validate(r))
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"job": "x", "tabel": {}}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveDSNEnvOverride(t *testing.T) {
	s := Storage{DSN: "from-file"}
	assert.Equal(t, "from-file", s.ResolveDSN())

	t.Setenv(EnvDSN, "from-env")
	assert.Equal(t, "from-env", s.ResolveDSN())
}
