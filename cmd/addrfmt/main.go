package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/addrfmt/internal/config"
)

const version = "1.0.0"

var (
	debugFlag   bool
	mappingFlag string
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("Failed to load .env: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:     "addrfmt",
		Short:   "Free-form postal address formatter",
		Long:    `Splits loosely ordered six-line postal addresses into title, name, street or PO box, postal code, city and country`,
		Version: version,
	}
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", config.GetEnvBool("DEBUG", false), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&mappingFlag, "mapping", config.GetEnv("MAPPING_FILE", ""), "TOML table mapping (defaults to the built-in layout)")

	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createParseCSVCmd())
	rootCmd.AddCommand(createRulesCmd())
	rootCmd.AddCommand(createCompareCmd())
	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createInitDBCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createServeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadMapping returns the --mapping file or the built-in layout
func loadMapping() (*config.Mapping, error) {
	if mappingFlag == "" {
		return config.DefaultMapping(), nil
	}
	return config.LoadMapping(mappingFlag)
}
