package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const census = `age,workclass,fnlwgt,education,education.num,marital.status,occupation,relationship,race,sex,capital.gain,capital.loss,hours.per.week,native.country,income
90,?,77053,HS-grad,9,Widowed,?,Not-in-family,White,Female,0,4356,40,United-States,<=50K
82,Private,132870,HS-grad,9,Widowed,Exec-managerial,Not-in-family,White,Female,0,4356,18,United-States,<=50K
54,Private,140359,7th-8th,4,Divorced,Machine-op-inspct,Unmarried,White,Female,0,3900,40,United-States,<=50K
41,Private,264663,Some-college,10,Separated,Prof-specialty,Own-child,White,Female,0,3900,40,United-States,>50K
`

func TestLoadCensus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adult.csv")
	require.NoError(t, os.WriteFile(path, []byte(census), 0o600))

	ds, err := LoadCensus(path)
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []int{0, 0, 0, 1}, ds.Y)
	assert.Equal(t, []string{"<=50K", ">50K"}, ds.Classes)
	assert.NotContains(t, ds.Features, CensusIdentifier)
	assert.Contains(t, ds.Features, "workclass_?")
	assert.Contains(t, ds.Features, "age")

	for _, row := range ds.X {
		assert.Len(t, row, len(ds.Features))
	}
}

func TestCheckCensus(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(census))
	require.NoError(t, err)
	require.NoError(t, CheckCensus(f))

	f, err = ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	err = CheckCensus(f)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Contains(t, err.Error(), "workclass")

	_, err = Prepare(f, []string{"zip"}, EncodeOptions{Label: "income"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
