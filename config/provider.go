package config

import "fmt"

// Provider defines the interface for retrieving configurations.
type Provider interface {
	GetCategoryConfig(name string) (*CategoryConfig, error)
	GetDataSourceConfig(name string) (*DataSourceConfig, error)
}

// MemoryConfigRegistry implements Provider using in-memory maps.
type MemoryConfigRegistry struct {
	categories  map[string]*CategoryConfig
	dataSources map[string]*DataSourceConfig
}

// NewMemoryConfigRegistry creates a new registry with the given configurations.
func NewMemoryConfigRegistry(c map[string]*CategoryConfig, d map[string]*DataSourceConfig) *MemoryConfigRegistry {
	return &MemoryConfigRegistry{
		categories:  c,
		dataSources: d,
	}
}

// GetCategoryConfig retrieves a CategoryConfig by name.
func (r *MemoryConfigRegistry) GetCategoryConfig(name string) (*CategoryConfig, error) {
	if conf, ok := r.categories[name]; ok {
		return conf, nil
	}
	return nil, fmt.Errorf("category config not found: %s", name)
}

// GetDataSourceConfig retrieves a DataSourceConfig by name.
func (r *MemoryConfigRegistry) GetDataSourceConfig(name string) (*DataSourceConfig, error) {
	if conf, ok := r.dataSources[name]; ok {
		return conf, nil
	}
	return nil, fmt.Errorf("data source config not found: %s", name)
}
