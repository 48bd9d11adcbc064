// Package config loads the runtime configuration of the circulation service
// and creates the database connections and telemetry providers it needs.
//
// Configuration comes from an optional .env file followed by the process environment;
// variables already set in the environment win over the file.
//
// This package is part of the shell (infrastructure) layer.
package config
