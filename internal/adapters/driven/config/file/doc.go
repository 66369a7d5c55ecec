// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.raggamuffin/config.toml
//   - PromptStore: editable LLM prompt templates at ~/.raggamuffin/prompts
package file
