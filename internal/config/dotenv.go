package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/subosito/gotenv"
)

// dotenvFiles lists the dotenv files for env, most specific first.
// <path>.local is skipped in the test environment so test runs stay
// reproducible.
func dotenvFiles(path, env string) []string {
	files := []string{
		fmt.Sprintf("%s.%s.local", path, env),
		fmt.Sprintf("%s.%s", path, env),
	}
	if env != EnvTest {
		files = append(files, path+".local")
	}
	return append(files, path)
}

// loadDotenv exports the variables of the existing dotenv files. Variables
// already present in the environment are never overwritten, so a variable
// defined in several files keeps its most specific value. ${VAR}
// references are expanded.
func loadDotenv(path, env string) error {
	for _, file := range dotenvFiles(path, env) {
		info, err := os.Stat(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading dotenv file %q: %w", file, err)
		}
		if info.IsDir() {
			continue
		}

		if err := gotenv.Load(file); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidDotenv, file, err)
		}
	}

	return nil
}
