// Package settings loads process settings for the game2048 command from
// defaults, an optional .env file, GAME2048_* environment variables and
// explicit overrides, and configures the global zerolog logger from them.
package settings
