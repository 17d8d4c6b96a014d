// Package config provides layered configuration resolution and the
// immutable runtime configuration for the memo pipeline.
//
// Values are merged with clear precedence:
//  1. Environment variables with the VOICEMEMO_ prefix (highest)
//  2. Local config (.voicememo.yaml in the working directory)
//  3. Global config (~/.config/voicememo/config.yaml)
//  4. Built-in defaults (lowest)
//
// Load resolves and validates once at startup; the resulting Config is a
// plain value handed by copy to the components that need it and never
// mutated afterwards.
package config
