package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	vcsurl "github.com/gitsight/go-vcsurl"
	"github.com/spf13/cobra"

	"github.com/roivaz/buildpost/internal/config"
	"github.com/roivaz/buildpost/internal/genai"
	"github.com/roivaz/buildpost/internal/gitrepo"
	"github.com/roivaz/buildpost/internal/logging"
	"github.com/roivaz/buildpost/internal/pipeline"
	"github.com/roivaz/buildpost/internal/prompt"
)

const version = "0.2.0"

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:           "buildpost",
	Short:         "Turn git commits into social media posts using AI",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage buildpost configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := config.Render()
		if err != nil {
			return err
		}
		bold.Println("Current configuration:")
		fmt.Println(rendered)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config.yaml and prompts.yaml with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitFile(); err != nil {
			return err
		}
		if err := prompt.WriteDefault(config.PromptsPath()); err != nil {
			return err
		}
		green.Println("✓ Configuration initialized")
		fmt.Printf("Config file:  %s\nPrompts file: %s\n", config.ConfigPath(), config.PromptsPath())
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key API_KEY",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		if provider == "" {
			provider = config.Provider()
		}
		if !keyFormatPlausible(provider, args[0]) {
			yellow.Printf("Warning: API key format looks unusual for provider %q\n", provider)
		}
		if err := config.SetAPIKey(provider, args[0]); err != nil {
			return err
		}
		green.Printf("✓ API key saved for %s\n", provider)
		return nil
	},
}

var configSetProviderCmd = &cobra.Command{
	Use:   "set-provider PROVIDER",
	Short: "Switch the active generation provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := strings.ToLower(args[0])
		if !providerSupported(provider) {
			return fmt.Errorf("unsupported provider %q (supported: %s)", provider, strings.Join(genai.Providers(), ", "))
		}
		model, _ := cmd.Flags().GetString("model")
		if err := config.SetProvider(provider, model); err != nil {
			return err
		}
		green.Printf("✓ Active provider set to %s\n", provider)
		if provider != genai.ProviderOllama && config.APIKey(provider) == "" {
			yellow.Printf("Reminder: no API key configured for %s\n", provider)
			fmt.Printf("  buildpost config set-key --provider %s YOUR_API_KEY\n", provider)
			if env := config.ProviderEnvVars[provider]; env != "" {
				fmt.Printf("  or export %s=YOUR_API_KEY\n", env)
			}
		}
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Reset(); err != nil {
			return err
		}
		green.Println("✓ Configuration reset to defaults")
		return nil
	},
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Manage prompt styles",
}

var stylesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available prompt styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := prompt.Load(config.PromptsPath())
		if err != nil {
			return err
		}
		bold.Println("Available styles:")
		for _, key := range lib.StyleKeys() {
			st := lib.Styles[key]
			fmt.Printf("  %-14s %s — %s\n", key, st.Name, st.Description)
		}
		return nil
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Manage platform specs",
}

var platformsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := prompt.Load(config.PromptsPath())
		if err != nil {
			return err
		}
		bold.Println("Available platforms:")
		for _, key := range lib.PlatformKeys() {
			p := lib.Platforms[key]
			fmt.Printf("  %-10s %-12s max %d chars\n", key, p.Name, p.MaxLength)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show buildpost version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("buildpost v%s\n", version)
	},
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	base := logging.ForLevel(config.LogLevel())

	commit, _ := cmd.Flags().GetString("commit")
	rng, _ := cmd.Flags().GetString("range")
	styleKey, _ := cmd.Flags().GetString("style")
	platformKey, _ := cmd.Flags().GetString("platform")
	noHashtags, _ := cmd.Flags().GetBool("no-hashtags")
	noCopy, _ := cmd.Flags().GetBool("no-copy")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	providerFlag, _ := cmd.Flags().GetString("provider")
	apiKeyFlag, _ := cmd.Flags().GetString("api-key")

	if styleKey == "" {
		styleKey = config.DefaultStyle()
	}
	if platformKey == "" {
		platformKey = config.DefaultPlatform()
	}

	provider := config.Provider()
	if providerFlag != "" {
		provider = strings.ToLower(providerFlag)
	}
	if !providerSupported(provider) {
		return fmt.Errorf("unsupported provider %q (supported: %s)", provider, strings.Join(genai.Providers(), ", "))
	}

	lib, err := prompt.Load(config.PromptsPath())
	if err != nil {
		return err
	}

	repo, err := gitrepo.Open(ctx, ".")
	if err != nil {
		return err
	}

	var gen pipeline.Generator
	if !dryRun {
		apiKey := apiKeyFlag
		if apiKey == "" {
			apiKey = config.APIKey(provider)
		}
		if provider != genai.ProviderOllama && apiKey == "" {
			red.Printf("No API key found for provider %q\n", provider)
			fmt.Printf("Set one with:\n  buildpost config set-key --provider %s YOUR_API_KEY\n", provider)
			if env := config.ProviderEnvVars[provider]; env != "" {
				fmt.Printf("  or export %s=YOUR_API_KEY\n", env)
			}
			return fmt.Errorf("missing API key for provider %q", provider)
		}
		gen, err = genai.New(genai.Config{
			Provider:    provider,
			Model:       config.Model(provider),
			APIKey:      apiKey,
			BaseURL:     baseURLFor(provider),
			Temperature: config.Temperature(),
			MaxTokens:   config.MaxTokens(),
			CallTimeout: config.CallTimeout(),
			Logger:      base,
		})
		if err != nil {
			return err
		}
	}

	res, err := pipeline.New(repo, lib, gen, base).Run(ctx, pipeline.Request{
		Ref:             commit,
		Range:           rng,
		Style:           styleKey,
		Platform:        platformKey,
		IncludeHashtags: !noHashtags && config.IncludeHashtags(),
		DryRun:          dryRun,
	})
	if err != nil {
		return err
	}

	bold.Printf("Commit:  ")
	fmt.Println(res.Summary.ShortHash)
	bold.Printf("Message: ")
	fmt.Println(res.Summary.Subject())
	bold.Printf("Files:   ")
	fmt.Printf("%d changed (+%d/-%d)\n", res.Summary.FilesCount, res.Summary.Insertions, res.Summary.Deletions)
	if name := originDisplayName(repo.RemoteURL(ctx)); name != "" {
		bold.Printf("Repo:    ")
		fmt.Println(name)
	}

	if dryRun {
		fmt.Println()
		bold.Println("System prompt:")
		fmt.Println(res.SystemPrompt)
		bold.Println("User prompt:")
		fmt.Println(res.UserPrompt)
		return nil
	}

	sep := strings.Repeat("=", 60)
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(res.Post)
	fmt.Println(sep)

	count := len([]rune(res.Post))
	limit := int(res.Platform.MaxLength)
	counter := green
	if count > limit {
		counter = red
	}
	counter.Printf("Characters: %d/%d\n", count, limit)

	if !noCopy && config.CopyToClipboard() {
		if err := clipboard.WriteAll(res.Post); err != nil {
			yellow.Println("Could not copy to clipboard")
		} else {
			green.Println("✓ Copied to clipboard")
		}
	}
	return nil
}

// originDisplayName renders the origin remote as host/owner/repo when the
// URL is parseable, "" otherwise.
func originDisplayName(remoteURL string) string {
	if strings.TrimSpace(remoteURL) == "" {
		return ""
	}
	info, err := vcsurl.Parse(remoteURL)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", info.Host, info.Username, info.Name)
}

func providerSupported(provider string) bool {
	for _, p := range genai.Providers() {
		if p == provider {
			return true
		}
	}
	return false
}

func baseURLFor(provider string) string {
	switch provider {
	case genai.ProviderGroq:
		return config.GroqBaseURL()
	case genai.ProviderOllama:
		return config.OllamaURL()
	default:
		return ""
	}
}

// keyFormatPlausible is a heuristic sanity check, not validation; odd keys
// are still stored.
func keyFormatPlausible(provider, key string) bool {
	switch provider {
	case genai.ProviderOpenAI:
		return strings.HasPrefix(key, "sk-")
	case genai.ProviderGroq:
		return strings.HasPrefix(key, "gsk_") || strings.HasPrefix(key, "sk-")
	default:
		return true
	}
}

func main() {
	rootCmd.Flags().StringP("commit", "c", "", "commit reference to post about (default HEAD)")
	rootCmd.Flags().StringP("range", "r", "", "commit range to summarize (e.g. HEAD~5..HEAD)")
	rootCmd.Flags().StringP("style", "s", "", "prompt style key")
	rootCmd.Flags().StringP("platform", "p", "", "target platform key")
	rootCmd.Flags().Bool("no-hashtags", false, "do not append default hashtags")
	rootCmd.Flags().Bool("no-copy", false, "do not copy the post to the clipboard")
	rootCmd.Flags().Bool("dry-run", false, "print the rendered prompt and exit without calling the provider")
	rootCmd.Flags().String("provider", "", "generation provider (openai, groq, ollama)")
	rootCmd.Flags().String("api-key", "", "API key override for this run")

	configSetKeyCmd.Flags().StringP("provider", "p", "", "provider to associate with this key")
	configSetProviderCmd.Flags().String("model", "", "default model for this provider")

	config.Init(rootCmd)

	configCmd.AddCommand(configShowCmd, configInitCmd, configSetKeyCmd, configSetProviderCmd, configResetCmd)
	stylesCmd.AddCommand(stylesListCmd)
	platformsCmd.AddCommand(platformsListCmd)
	rootCmd.AddCommand(configCmd, stylesCmd, platformsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
