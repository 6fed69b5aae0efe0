package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadReportConfig loads a report configuration from a YAML file.
// Fields absent from the file keep the values of DefaultReportConfig.
func LoadReportConfig(path string) (*ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report config file: %w", err)
	}
	return ParseReportConfig(data)
}

// ParseReportConfig decodes YAML onto the default report contract.
func ParseReportConfig(data []byte) (*ReportConfig, error) {
	cfg := DefaultReportConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse report config: %w", err)
	}
	return cfg, nil
}

type dataSourcesBundle struct {
	DataSources []DataSourceConfig `yaml:"dataSources"`
}

// LoadDataSourcesBundle loads the data sources from a dedicated YAML file.
func LoadDataSourcesBundle(path string) (map[string]*DataSourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data source bundle: %w", err)
	}

	var bundle dataSourcesBundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse data source bundle: %w", err)
	}
	return indexDataSources(bundle.DataSources)
}

// DataSourceMap indexes the report's inline data sources by name.
func (c *ReportConfig) DataSourceMap() (map[string]*DataSourceConfig, error) {
	return indexDataSources(c.DataSources)
}

func indexDataSources(list []DataSourceConfig) (map[string]*DataSourceConfig, error) {
	out := make(map[string]*DataSourceConfig, len(list))
	for i := range list {
		ds := &list[i]
		if ds.Name == "" {
			return nil, fmt.Errorf("data source %d has no name", i)
		}
		if _, dup := out[ds.Name]; dup {
			return nil, fmt.Errorf("duplicate data source %q", ds.Name)
		}
		out[ds.Name] = ds
	}
	return out, nil
}

// CategoryMap indexes the report's categories by name.
func (c *ReportConfig) CategoryMap() map[string]*CategoryConfig {
	out := make(map[string]*CategoryConfig, len(c.Categories))
	for i := range c.Categories {
		out[c.Categories[i].Name] = &c.Categories[i]
	}
	return out
}
