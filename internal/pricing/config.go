package pricing

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadTables reads tier tables from a YAML, TOML or JSON file. An empty path yields DefaultTables.
func LoadTables(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTables(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Tables{}, fmt.Errorf("read pricing tables %s: %w", path, err)
	}

	var tables Tables
	if err := v.Unmarshal(&tables); err != nil {
		return Tables{}, fmt.Errorf("decode pricing tables %s: %w", path, err)
	}
	for i := range tables.Families {
		tables.Families[i].Match = strings.ToUpper(strings.TrimSpace(tables.Families[i].Match))
		if tables.Families[i].Basis == "" {
			tables.Families[i].Basis = BasisCentimeters
		}
	}
	if err := tables.Validate(); err != nil {
		return Tables{}, err
	}
	return tables, nil
}
