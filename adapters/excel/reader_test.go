package excel

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gothesis/domain/core"
	"gothesis/domain/dataset"
	"gothesis/internal"
	apperrors "gothesis/internal/errors"
)

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSVInfersTypes(t *testing.T) {
	path := writeCSV(t, "group,score,code\nA,1.5,1\nB,NA,2\nA,3,\n")
	ds, err := NewDataReader(path, DefaultLoadConfig(), quietLogger()).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"group", "score", "code"}, ds.Names())
	assert.Equal(t, 3, ds.Rows())

	group, _ := ds.Column("group")
	assert.Equal(t, dataset.TypeCategorical, group.Type)

	score, _ := ds.Column("score")
	assert.Equal(t, dataset.TypeNumeric, score.Type)
	assert.Equal(t, 1.5, score.Numbers[0])
	assert.True(t, math.IsNaN(score.Numbers[1]))

	code, _ := ds.Column("code")
	assert.True(t, code.IsMissing(2))
}

func TestLoad_CategoricalOverrideAndNormalize(t *testing.T) {
	path := writeCSV(t, "Study Group , exam  score\n1,70\n2,80\n")
	cfg := DefaultLoadConfig()
	cfg.Normalize = true
	cfg.Categorical = []string{"study group"}
	ds, err := NewDataReader(path, cfg, quietLogger()).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"STUDY_GROUP", "EXAM_SCORE"}, ds.Names())
	col, _ := ds.Column("STUDY_GROUP")
	assert.Equal(t, dataset.TypeCategorical, col.Type)
	assert.Equal(t, []string{"1", "2"}, col.Labels)
}

func TestLoad_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv"), DefaultLoadConfig(), quietLogger()).Load()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDataLoadError, apperrors.GetCode(err))

	headerOnly := writeCSV(t, "a,b\n")
	_, err = NewDataReader(headerOnly, DefaultLoadConfig(), quietLogger()).Load()
	assert.Equal(t, apperrors.CodeDataLoadError, apperrors.GetCode(err))

	dup := writeCSV(t, "a,a\n1,2\n")
	_, err = NewDataReader(dup, DefaultLoadConfig(), quietLogger()).Load()
	require.ErrorIs(t, err, core.ErrDuplicateColumn)
	assert.Equal(t, apperrors.CodeDataLoadError, apperrors.GetCode(err))
}

func TestLoad_XLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"item1", "item2", "city"}))
	for i := 0; i < 4; i++ {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &[]interface{}{i + 1, 5 - i, "Oslo"}))
	}
	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := NewDataReader(path, DefaultLoadConfig(), quietLogger()).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Rows())
	item2, _ := ds.Column("item2")
	assert.Equal(t, []float64{5, 4, 3, 2}, item2.Numbers)
	city, _ := ds.Column("city")
	assert.Equal(t, dataset.TypeCategorical, city.Type)
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "AGE_IN_YEARS", ColumnName("  age \t in years ", true))
	assert.Equal(t, "age  x", ColumnName(" age  x ", false))
}
