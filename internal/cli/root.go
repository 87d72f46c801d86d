package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/campusfaq/internal/knowledge"
	"github.com/ppiankov/campusfaq/internal/llm"
	"github.com/ppiankov/campusfaq/internal/model"
	"github.com/ppiankov/campusfaq/internal/pipeline"
	"github.com/ppiankov/campusfaq/internal/store"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	dbPath  string
	verbose bool
	jsonOut bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "campusfaq",
	Short: "campusfaq - answers student questions from campus documents",
	Long: `campusfaq turns college notices (fee structures, hostel rules, scholarship
circulars) into a searchable store of question/answer facts.

Ingest PDF, DOCX, XLSX, XLS, HTML or text documents, then ask questions:

  campusfaq ingest fees-2024.pdf hostel-rules.docx
  campusfaq ask "bcom fees"

Answers are quoted from the documents. When nothing relevant is stored,
campusfaq says so instead of guessing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("campusfaq %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.campusfaq/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "knowledge database path (overrides store.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")

	// Bind flags to viper
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and CAMPUSFAQ_* environment variables
func initConfig() {
	// Provider keys usually live in .env next to the documents
	_ = godotenv.Load()

	if err := registerDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".campusfaq"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CAMPUSFAQ_STORE_PATH overrides store.path
	viper.SetEnvPrefix("CAMPUSFAQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults flattens the default config into viper defaults so that
// environment variables are seen for every key on Unmarshal
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaults("", tree)

	// Omitted from the YAML when empty, still overridable
	for _, key := range []string{"llm.api_key", "llm.base_url", "http.http_proxy", "http.https_proxy", "http.no_proxy"} {
		viper.SetDefault(key, "")
	}
	return nil
}

func setDefaults(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig returns the effective configuration: defaults, config file,
// environment, flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Conventional provider variables fill in what the config leaves empty
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OPENAI_BASE_URL")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	return cfg, nil
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// app wires the store, the knowledge facade and the ingestion pipeline
type app struct {
	cfg       *model.Config
	store     *store.SQLiteStore
	knowledge *knowledge.Service
	logger    *slog.Logger
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	return &app{
		cfg:       cfg,
		store:     st,
		knowledge: knowledge.NewService(st, cfg.Retrieval, logger),
		logger:    logger,
	}, nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.NewPipeline(a.cfg, a.store, a.knowledge, a.logger)
}

// responder returns a template-only responder when no provider is configured
// or the provider cannot be created
func (a *app) responder() *llm.Responder {
	provider, err := llm.NewProvider(llm.ConfigFromModel(a.cfg.LLM, a.cfg.HTTP))
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  LLM disabled: %v\n", err)
		provider = nil
	}
	return llm.NewResponder(provider, a.cfg.LLM.Strict, a.logger)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", "err", err)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
