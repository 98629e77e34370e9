package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may be found. The first non-empty location
// wins in the order File, Value, Env.
type Source struct {
	// Name is used in error messages.
	Name string
	// File points to a file holding the secret.
	File string
	// Value is an inline secret from configuration or flags.
	Value string
	// Env names an environment variable holding the secret.
	Env string
}

// Load resolves the secret described by src. The returned secret is trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s is not configured (%s is empty)", name, env)
	}

	return "", fmt.Errorf("%s is not configured", name)
}
