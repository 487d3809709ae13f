package parser

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const envFileName = "http-client.env.json"

// LoadEnvironment walks upward from startDir looking for http-client.env.json,
// returning the resolved variables for profile on the first hit. A missing
// file or missing profile contributes no variables, never an error.
//
// It also layers a .env file underneath the profile's values: the nearest
// .env found by its own upward walk from startDir, which need not be in the
// env.json's directory. .env entries are overridden by same-named
// http-client.env.json entries, and are returned even when no env.json or
// profile is found.
func LoadEnvironment(startDir, profile string) map[string]string {
	out := map[string]string{}

	dir := startDir
	for {
		if dotenv := loadDotEnv(filepath.Join(dir, ".env")); dotenv != nil {
			for k, v := range dotenv {
				out[k] = v
			}
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	dir = startDir
	for {
		path := filepath.Join(dir, envFileName)
		if data, err := os.ReadFile(path); err == nil {
			profileVars := parseEnvFile(data, profile)
			for k, v := range profileVars {
				out[k] = v
			}
			return out
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return out
		}
		dir = parent
	}
}

func loadDotEnv(path string) map[string]string {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil
	}
	return vars
}

// parseEnvFile coerces { "<profile>": { "<var>": <scalar-or-container> } }
// into a flat string map: string as-is, number/bool to lexical form, null
// to empty, containers to JSON text.
func parseEnvFile(data []byte, profile string) map[string]string {
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("parser: invalid environment file, treating as empty", "error", err)
		return nil
	}
	section, ok := doc[profile]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(section))
	for k, v := range section {
		out[k] = coerceScalar(v)
	}
	return out
}

func coerceScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return jsonNumberText(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func jsonNumberText(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
