package dynamo

import "sort"

// ParameterSets is the fixed registry of named regimes.
var ParameterSets = map[string]Params{
	"Lorenz":       {Rho: 28, Sigma: 10, Beta: 8.0 / 3.0},
	"Moon":         {Rho: 99.96, Sigma: 10, Beta: 8.0 / 3.0},
	"Stable":       {Rho: 14, Sigma: 10, Beta: 8.0 / 3.0},
	"Intermittent": {Rho: 166.1, Sigma: 10, Beta: 8.0 / 3.0},
}

// DefaultParameterSet is used when no name is configured.
const DefaultParameterSet = "Lorenz"

// LookupParams returns the registered coefficients for name.
func LookupParams(name string) (Params, error) {
	p, ok := ParameterSets[name]
	if !ok {
		return Params{}, &ConfigError{Field: "parameter_set", Value: name, Wrapped: ErrUnknownParameterSet}
	}
	return p, nil
}

// ParameterSetNames returns the registry keys in sorted order.
func ParameterSetNames() []string {
	names := make([]string, 0, len(ParameterSets))
	for name := range ParameterSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
