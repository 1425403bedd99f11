package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadColumn(t *testing.T) {
	path := writeTemp(t, "accounts.csv",
		"Name,ACCT_Id,Region\nAlice,A001,north\nBob,A002,south\nCara,A001,east\n")

	values, col, err := LoadColumn(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ACCT_Id", col)
	// Raw values; dedupe is the normalizer's job.
	assert.Equal(t, []string{"A001", "A002", "A001"}, values)
}

func TestLoadColumnBOMHeader(t *testing.T) {
	path := writeTemp(t, "bom.csv", "\uFEFFacct_id,Name\nA001,Alice\n")

	values, col, err := LoadColumn(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "acct_id", col)
	assert.Equal(t, []string{"A001"}, values)
}

func TestLoadColumnShortRowsSkipped(t *testing.T) {
	path := writeTemp(t, "ragged.csv", "Name,AcctID\nAlice,A001\nBob\nCara,A003\n")

	values, _, err := LoadColumn(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A001", "A003"}, values)
}

func TestLoadColumnExplicitColumn(t *testing.T) {
	path := writeTemp(t, "explicit.csv", "ref,code\nr1,c1\nr2,c2\n")

	values, col, err := LoadColumn(path, Options{Column: "code"})
	require.NoError(t, err)
	assert.Equal(t, "code", col)
	assert.Equal(t, []string{"c1", "c2"}, values)
}

func TestLoadColumnMissing(t *testing.T) {
	path := writeTemp(t, "nocol.csv", "foo,bar\n1,2\n")

	_, _, err := LoadColumn(path, Options{})
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"foo", "bar"}, missing.Columns)
}

func TestLoadColumnSemicolonDelimiter(t *testing.T) {
	path := writeTemp(t, "semi.csv", "acct_id;name\nA1;x\nA2;y\n")

	values, _, err := LoadColumn(path, Options{Comma: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, values)
}

func TestCSVSource(t *testing.T) {
	path := writeTemp(t, "src.csv", "acct_id\n A001 \nA001\n\nA002\n")

	set, err := CSVSource{Path: path}.Identifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"A001", "A002"}, set.Tokens())
}
