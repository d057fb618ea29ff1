package config

import "fmt"

// Variable is a named value that config expressions reference as
// vars.{name}. Values resolve from ~/.insightql/vars.txt, falling back to
// Default when the file has no entry.
type Variable struct {
	Name    string `hcl:"name,label"`
	Default string `hcl:"default,optional"`
	Secret  bool   `hcl:"secret,optional"`
}

// Validate rejects secret variables that carry a default: secrets belong in
// the vars file, not in config that gets committed.
func (v *Variable) Validate() error {
	if v.Secret && v.Default != "" {
		return fmt.Errorf("secret variable '%s' must not set a default in config; store it with 'insightql vars set %s'", v.Name, v.Name)
	}
	return nil
}
