// Package config exposes typed configuration lookups behind the Config
// interface, with a Viper implementation layering defaults, an optional
// config file, TWOFA_* environment variables and bound command line flags.
package config
