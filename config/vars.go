package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func GetVarsFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".insightql", "vars.txt"), nil
}

func ensureVarsDir() error {
	path, err := GetVarsFilePath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0700)
}

func LoadVarsFromFile() (map[string]string, error) {
	vars := make(map[string]string)

	path, err := GetVarsFilePath()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return vars, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			vars[parts[0]] = parts[1]
		}
	}

	return vars, scanner.Err()
}

func SaveVarsToFile(vars map[string]string) error {
	if err := ensureVarsDir(); err != nil {
		return err
	}

	path, err := GetVarsFilePath()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s=%s\n", k, vars[k]))
	}

	return os.WriteFile(path, []byte(sb.String()), 0600)
}

// GetVar returns a single variable's value
func GetVar(name string) (string, error) {
	vars, err := LoadVarsFromFile()
	if err != nil {
		return "", err
	}
	value, ok := vars[name]
	if !ok {
		return "", fmt.Errorf("variable '%s' is not set", name)
	}
	return value, nil
}

// SetVar sets a single variable, preserving others
func SetVar(name, value string) error {
	vars, err := LoadVarsFromFile()
	if err != nil {
		return err
	}
	vars[name] = value
	return SaveVarsToFile(vars)
}

// UnsetVar removes a single variable
func UnsetVar(name string) error {
	vars, err := LoadVarsFromFile()
	if err != nil {
		return err
	}
	if _, ok := vars[name]; !ok {
		return fmt.Errorf("variable '%s' is not set", name)
	}
	delete(vars, name)
	return SaveVarsToFile(vars)
}
