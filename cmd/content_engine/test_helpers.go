package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the content_engine binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "content_engine"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// envWithout returns the current environment minus the named variables.
func envWithout(names ...string) []string {
	var env []string
outer:
	for _, e := range os.Environ() {
		for _, name := range names {
			if len(e) > len(name) && e[:len(name)+1] == name+"=" {
				continue outer
			}
		}
		env = append(env, e)
	}
	return env
}
