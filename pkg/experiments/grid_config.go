package experiments

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// gridFile is the on-disk shape of a grid search definition.
type gridFile struct {
	Grid []Overrides `yaml:"grid"`
}

// LoadGrid reads candidate value-sets from a YAML file of the form:
//
//	grid:
//	  - name: wide
//	    momentum_bias: 0.55
//	  - momentum_bias: 0.65
//	    vol_k: 2.0
func LoadGrid(path string) ([]Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}

	var f gridFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse grid file: %w", err)
	}
	if len(f.Grid) == 0 {
		return nil, fmt.Errorf("grid file %s defines no parameter sets", path)
	}
	return f.Grid, nil
}
