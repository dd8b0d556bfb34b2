// Package config loads the city to dataset mapping and the process settings.
//
// Settings come from, in increasing priority: built-in defaults, a YAML file, and environment
// variables (optionally seeded from a .env file). With no YAML file the three bundled CSV
// exports are expected under the data directory.
package config
