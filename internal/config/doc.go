// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation. A small set of deployment-critical fields (PORT, DB_*,
// JWT_SECRET) can additionally be overridden by plain environment
// variables, which wins over the file value.
package config
