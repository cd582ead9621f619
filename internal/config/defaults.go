// Package config provides configuration handling for beangen.
package config

import "time"

// DefaultGenerator returns the default code generation settings.
func DefaultGenerator() Generator {
	return Generator{
		Indent:  "tab",
		Prefix:  "",
		Runtime: "beans",
		Import:  "beangen/pkg/beans",
	}
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		Include: []string{"**/*.go"},
		Exclude: []string{
			"**/*_test.go",
			"**/vendor/**",
			"**/testdata/**",
			"**/.git/**",
		},
		Workers:  0,
		Debounce: 200 * time.Millisecond,
	}
}
