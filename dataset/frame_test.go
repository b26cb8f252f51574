package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `age, sex, city, income
39, Male, Lisbon, <=50K
50, Female, Porto, >50K.
38, Male, Porto, <=50K.
53, Female, Lisbon, >50K
`

func TestReadCSV(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "sex", "city", "income"}, f.Header)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []string{"50", "Female", "Porto", ">50K."}, f.Rows[1])

	col, err := f.Column("city")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisbon", "Porto", "Porto", "Lisbon"}, col)

	_, err = f.Column("zip")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o600))

	f, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDrop(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	dropped, err := f.Drop("sex", "age")
	require.NoError(t, err)

	assert.Equal(t, []string{"city", "income"}, dropped.Header)
	assert.Equal(t, []string{"Lisbon", "<=50K"}, dropped.Rows[0])

	// The original is untouched.
	assert.Len(t, f.Header, 4)
	assert.Len(t, f.Rows[0], 4)

	_, err = f.Drop("zip")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
