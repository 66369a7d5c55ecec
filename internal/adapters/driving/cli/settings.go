package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsChunkerCmd = &cobra.Command{
	Use:   "chunker [size] [overlap]",
	Short: "Set the chunk size and overlap in characters",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsChunker,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding [provider] [model]",
	Short: "Set the embedding provider and model",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm [provider] [model]",
	Short: "Set the LLM provider and model used for summaries",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSettingsLLM,
}

var settingsCyclesCmd = &cobra.Command{
	Use:   "cycles [true|false]",
	Short: "Allow or reject cycles in the organization hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsCycles,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the configured AI providers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

var settingsBaseURL string

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&settingsBaseURL, "base-url", "", "Provider base URL")
	settingsLLMCmd.Flags().StringVar(&settingsBaseURL, "base-url", "", "Provider base URL")

	settingsCmd.AddCommand(settingsCheckCmd, settingsChunkerCmd, settingsEmbeddingCmd, settingsLLMCmd, settingsCyclesCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	s, err := a.settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Store")
	cmd.Printf("  Data dir: %s\n", a.store.Path())
	cmd.Println("Chunker")
	cmd.Printf("  Size:    %d\n", s.Chunker.Size)
	cmd.Printf("  Overlap: %d\n", s.Chunker.Overlap)
	cmd.Println("Embedding")
	printProvider(cmd, s.Embedding.Provider, s.Embedding.Model, s.Embedding.BaseURL)
	cmd.Println("LLM")
	printProvider(cmd, s.LLM.Provider, s.LLM.Model, s.LLM.BaseURL)
	cmd.Println("Entities")
	cmd.Printf("  Allow hierarchy cycles: %t\n", s.Entities.AllowHierarchyCycles)
	cmd.Println("Ingest")
	cmd.Printf("  Glob:  %s\n", s.Ingest.Glob)
	cmd.Printf("  Chunk: %t\n", s.Ingest.Chunk)
	return nil
}

func printProvider(cmd *cobra.Command, p domain.AIProvider, model, baseURL string) {
	if !p.IsValid() {
		cmd.Println("  Not configured")
		return
	}
	cmd.Printf("  Provider: %s\n", p.Description())
	cmd.Printf("  Model:    %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if err := a.settingsSvc.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := a.settingsSvc.ValidateEmbeddingConfig(); err != nil {
		return fmt.Errorf("embedding provider unavailable: %w", err)
	}
	if err := a.settingsSvc.ValidateLLMConfig(); err != nil {
		return fmt.Errorf("LLM provider unavailable: %w", err)
	}
	cmd.Println("Settings OK.")
	return nil
}

func runSettingsChunker(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], domain.ErrInvalidInput)
	}
	overlap, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid overlap %q: %w", args[1], domain.ErrInvalidInput)
	}
	if err := a.settingsSvc.SetChunker(size, overlap); err != nil {
		return fmt.Errorf("failed to set chunker: %w", err)
	}
	cmd.Printf("Chunker set to %d characters with %d overlap\n", size, overlap)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	provider, model := providerArgs(args, domain.DefaultEmbeddingModels())
	if err := a.settingsSvc.SetEmbeddingProvider(provider, model, settingsBaseURL); err != nil {
		return fmt.Errorf("failed to set embedding provider: %w", err)
	}
	cmd.Printf("Embedding provider set to %s (%s)\n", provider, model)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	provider, model := providerArgs(args, domain.DefaultLLMModels())
	if err := a.settingsSvc.SetLLMProvider(provider, model, settingsBaseURL); err != nil {
		return fmt.Errorf("failed to set LLM provider: %w", err)
	}
	cmd.Printf("LLM provider set to %s (%s)\n", provider, model)
	return nil
}

func runSettingsCycles(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	allow, err := strconv.ParseBool(args[0])
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], domain.ErrInvalidInput)
	}
	if err := a.settingsSvc.SetAllowHierarchyCycles(allow); err != nil {
		return fmt.Errorf("failed to set hierarchy cycles: %w", err)
	}
	cmd.Printf("Allow hierarchy cycles: %t\n", allow)
	return nil
}

// providerArgs returns the provider and the model, falling back to the
// provider's default model.
func providerArgs(args []string, defaults map[domain.AIProvider]string) (domain.AIProvider, string) {
	provider := domain.AIProvider(args[0])
	if len(args) > 1 {
		return provider, args[1]
	}
	return provider, defaults[provider]
}
