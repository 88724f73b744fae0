// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Command-line flags
//  2. Environment variables, after the dotenv files have been exported
//  3. The config-<env> bundle (JSON or YAML)
//  4. Built-in defaults
//
// Dotenv files are looked up relative to DOTENV_PATH (".env" by default):
// .env.<env>.local, .env.<env>, .env.local (not in test) and .env, most
// specific first. Variables already present in the environment are kept.
//
// The main entry point is [GetStructuredConfig].
package config
