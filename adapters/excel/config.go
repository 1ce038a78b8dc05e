package excel

// LoadConfig controls how a sheet or CSV file becomes a dataset
type LoadConfig struct {
	Sheet       string   `json:"sheet" yaml:"sheet"`             // defaults to the first sheet
	Categorical []string `json:"categorical" yaml:"categorical"` // columns kept as labels even when every cell is numeric
	Normalize   bool     `json:"normalize" yaml:"normalize"`     // whitespace runs become "_" and names are upper-cased
	Missing     []string `json:"missing" yaml:"missing"`         // cell values treated as missing, compared case-insensitively
}

// DefaultLoadConfig returns the loader defaults
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Missing: []string{"", "NA", "N/A", "NaN", "null", "-"},
	}
}
