package config

// Sheet names fixed by the reconciliation template.
const (
	SheetSummary       = "SUMMARY"
	SheetAdvancesGiven = "ADVANCES_GIVEN"
)

// AnchorConfig: fixed cells on the summary sheet written without header scanning
type AnchorConfig struct {
	ProjectName string `json:"projectName" yaml:"projectName"` // e.g. "C3"
	GeneratedAt string `json:"generatedAt" yaml:"generatedAt"`
	Reporter    string `json:"reporter"    yaml:"reporter"`
}

// SummaryConfig: summary sheet config
type SummaryConfig struct {
	Sheet   string       `json:"sheet"   yaml:"sheet"`
	Anchors AnchorConfig `json:"anchors" yaml:"anchors"`
}

// DependentFormulaConfig: a formula owned by the engine that depends on a table total.
// Formula may use ${start_row}, ${end_row}, ${total_row} and ${extra}.
type DependentFormulaConfig struct {
	Sheet   string `json:"sheet"   yaml:"sheet"`
	Cell    string `json:"cell"    yaml:"cell"` // address in the untouched template
	Formula string `json:"formula" yaml:"formula"`
}

// TableConfig：fixed-capacity aggregate table config
type TableConfig struct {
	Name             string `json:"name"             yaml:"name"`
	Sheet            string `json:"sheet"            yaml:"sheet"`
	StartRow         int    `json:"startRow"         yaml:"startRow"`
	Capacity         int    `json:"capacity,omitempty" yaml:"capacity,omitempty"` // 0: derived from the total row
	FallbackTotalRow int    `json:"fallbackTotalRow" yaml:"fallbackTotalRow"`
	TotalMarker      string `json:"totalMarker,omitempty" yaml:"totalMarker,omitempty"` // empty: total row is fixed
	LabelColumn      string `json:"labelColumn"      yaml:"labelColumn"`
	AmountColumn     string `json:"amountColumn"     yaml:"amountColumn"`
	// Bounded tables fold the tail into an "other" row instead of growing.
	Bounded      bool                     `json:"bounded"      yaml:"bounded"`
	OtherLabel   string                   `json:"otherLabel,omitempty"   yaml:"otherLabel,omitempty"`
	UnnamedLabel string                   `json:"unnamedLabel,omitempty" yaml:"unnamedLabel,omitempty"`
	Dependents   []DependentFormulaConfig `json:"dependents,omitempty"   yaml:"dependents,omitempty"`
}

// HeaderConfig：keyword families used to find and map detail table headers
type HeaderConfig struct {
	ScanLimit   int `json:"scanLimit"   yaml:"scanLimit"`
	FallbackRow int `json:"fallbackRow" yaml:"fallbackRow"`

	DateTokens        []string `json:"dateTokens"        yaml:"dateTokens"`
	DocumentTokens    []string `json:"documentTokens"    yaml:"documentTokens"`
	NumberTokens      []string `json:"numberTokens"      yaml:"numberTokens"`
	AmountTokens      []string `json:"amountTokens"      yaml:"amountTokens"`
	PreferredAmount   []string `json:"preferredAmount"   yaml:"preferredAmount"`
	DescriptionTokens []string `json:"descriptionTokens" yaml:"descriptionTokens"`
	TotalMarkers      []string `json:"totalMarkers"      yaml:"totalMarkers"`

	FallbackDateColumn        int `json:"fallbackDateColumn"        yaml:"fallbackDateColumn"`
	FallbackAmountColumn      int `json:"fallbackAmountColumn"      yaml:"fallbackAmountColumn"`
	FallbackDescriptionColumn int `json:"fallbackDescriptionColumn" yaml:"fallbackDescriptionColumn"`
}

// CategoryConfig：expense category -> sheet binding
type CategoryConfig struct {
	Name    string   `json:"name"    yaml:"name"`
	Sheet   string   `json:"sheet"   yaml:"sheet"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// DataSourceConfig：transaction source config
type DataSourceConfig struct {
	Name   string `json:"name"   yaml:"name"`
	Driver string `json:"driver" yaml:"driver"` // "csv", "mysql", "postgres", "sqlite3", "dynamodb"
	DSN    string `json:"dsn,omitempty"    yaml:"dsn,omitempty"`
	Table  string `json:"table,omitempty"  yaml:"table,omitempty"`
	Dir    string `json:"dir,omitempty"    yaml:"dir,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// ReportConfig：report range config
type ReportConfig struct {
	Name        string             `json:"name"       yaml:"name"`
	Template    string             `json:"template"   yaml:"template"` // local path or s3://bucket/key
	OutputDir   string             `json:"outputDir"  yaml:"outputDir"`
	Filename    string             `json:"filename"   yaml:"filename"`
	Parameters  map[string]string  `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Summary     SummaryConfig      `json:"summary"    yaml:"summary"`
	Received    TableConfig        `json:"received"   yaml:"received"`
	Given       TableConfig        `json:"given"      yaml:"given"`
	Header      HeaderConfig       `json:"header"     yaml:"header"`
	Categories  []CategoryConfig   `json:"categories" yaml:"categories"`
	DataSources []DataSourceConfig `json:"dataSources,omitempty" yaml:"dataSources,omitempty"`
}
