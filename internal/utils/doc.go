// Package utils hosts shared infrastructure for the ghops CLI: the
// Viper-backed configuration loader and the zap logger factory consumed by
// every command.
package utils
