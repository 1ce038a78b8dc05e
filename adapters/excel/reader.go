package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gothesis/domain/dataset"
	"gothesis/internal"
	apperrors "gothesis/internal/errors"
)

var whitespace = regexp.MustCompile(`\s+`)

// DataReader loads Excel and CSV files into datasets
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   LoadConfig
	log      *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string, config LoadConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: config, log: logger.With("DataReader")}
}

// Load reads the file and infers a dataset from it
func (r *DataReader) Load() (*dataset.Dataset, error) {
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}
	ds, err := Build(raw, r.config)
	if err != nil {
		return nil, apperrors.DataLoad(r.filePath, err)
	}
	r.log.Info("%s loaded (%d columns, %d rows)", r.filePath, len(ds.Names()), ds.Rows())
	return ds, nil
}

// ReadRaw reads the header and cells without interpreting them
func (r *DataReader) ReadRaw() (*RawTable, error) {
	r.log.Debug("reading %s file: %s", r.fileType, r.filePath)
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, apperrors.DataLoad(r.filePath, err)
	}

	var rows [][]string
	var err error
	start := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, apperrors.DataLoad(r.filePath, err)
	}
	r.log.Debug("%s read in %.2fms (%d rows)", r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, apperrors.DataLoad(r.filePath, fmt.Errorf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType)))
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &RawTable{Headers: headers, Rows: rows[1:]}, nil
}

func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// Build infers one column per header. A column is numeric when every present cell parses
// as a number, unless the config names it categorical.
func Build(raw *RawTable, config LoadConfig) (*dataset.Dataset, error) {
	missing := make(map[string]bool, len(config.Missing))
	for _, m := range config.Missing {
		missing[strings.ToLower(m)] = true
	}
	forced := make(map[string]bool, len(config.Categorical))
	for _, c := range config.Categorical {
		forced[ColumnName(c, config.Normalize)] = true
	}

	cols := make([]dataset.Column, len(raw.Headers))
	for j, header := range raw.Headers {
		name := ColumnName(header, config.Normalize)
		if name == "" {
			name = fmt.Sprintf("COLUMN_%d", j+1)
		}
		cells := make([]string, len(raw.Rows))
		for i := range raw.Rows {
			cell := strings.TrimSpace(raw.cell(i, j))
			if missing[strings.ToLower(cell)] {
				cell = ""
			}
			cells[i] = cell
		}

		if numbers, ok := parseNumbers(cells); ok && !forced[name] {
			cols[j] = dataset.NewNumericColumn(name, numbers)
		} else {
			cols[j] = dataset.NewCategoricalColumn(name, cells)
		}
	}
	return dataset.New(cols...)
}

// ColumnName trims a header and, when normalising, replaces whitespace runs with "_" and
// upper-cases it
func ColumnName(header string, normalize bool) string {
	name := strings.TrimSpace(header)
	if normalize {
		name = strings.ToUpper(whitespace.ReplaceAllString(name, "_"))
	}
	return name
}

func parseNumbers(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		if c == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
