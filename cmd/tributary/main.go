package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/connector/registry"
	"github.com/ajitpratap0/tributary/pkg/json"
	"github.com/ajitpratap0/tributary/pkg/logger"
	"github.com/ajitpratap0/tributary/pkg/observability"

	// Import all available connectors to register them
	_ "github.com/ajitpratap0/tributary/pkg/connector/sources/github"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "tributary",
		Short: "Tributary - REST API data extraction toolkit",
		Long: `Tributary pulls records out of paginated REST APIs with built-in
rate limiting and retries, and streams them as newline-delimited JSON.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Tributary v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available connectors",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available connectors:")
			for _, name := range registry.List() {
				fmt.Printf("  - %s\n", name)
			}
		},
	})

	var initOutput string
	initCmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConnectorConfig("https://api.example.com")
			if err := config.Save(initOutput, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", initOutput)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "tributary.yaml", "Path for the generated configuration file")
	root.AddCommand(initCmd)

	var configFile, connectorName string
	var rawParams []string
	var maxPages int

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract records from a connector",
		Long: `Extract records from the named connector and write them to stdout
as newline-delimited JSON.

Example:
  tributary extract --connector github --config github.yaml --param username=torvalds`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			if maxPages > 0 {
				params["max_pages"] = strconv.Itoa(maxPages)
			}
			return runExtract(configFile, connectorName, params)
		},
	}
	extractCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to connector configuration YAML file (required)")
	extractCmd.Flags().StringVar(&connectorName, "connector", "", "Registered connector name (required)")
	extractCmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Extraction parameter as key=value (repeatable)")
	extractCmd.Flags().IntVar(&maxPages, "max-pages", 0, "Bound pagination to this many pages (0 means unbounded)")
	_ = extractCmd.MarkFlagRequired("config")
	_ = extractCmd.MarkFlagRequired("connector")
	root.AddCommand(extractCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseParams converts repeated key=value flags into a parameter map.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}

func runExtract(configFile, connectorName string, params map[string]string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := logger.Init(logger.Config{Level: cfg.Observability.LogLevel}); err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Observability.EnableTracing {
		if err := observability.InitTracing("tributary"); err != nil {
			return fmt.Errorf("tracing initialization failed: %w", err)
		}
		defer func() { _ = observability.Shutdown(context.Background()) }()
	}

	conn, err := registry.Create(connectorName, cfg)
	if err != nil {
		return fmt.Errorf("connector creation failed: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logger.Error("connector close failed", zap.Error(cerr))
		}
	}()

	ctx := context.Background()
	records, err := conn.Extract(ctx, params)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	for _, record := range records {
		if err := json.MarshalToWriter(os.Stdout, record); err != nil {
			return fmt.Errorf("output encoding failed: %w", err)
		}
	}

	logger.Info("extraction complete",
		zap.String("connector", conn.Name()),
		zap.Int("records", len(records)))
	return nil
}
