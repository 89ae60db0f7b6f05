package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/addrfmt/internal/config"
	"github.com/addrfmt/internal/db"
	"github.com/addrfmt/internal/formatter"
	"github.com/addrfmt/internal/web"
)

func createRunCmd() *cobra.Command {
	var limit, workers int
	var noLink bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Format every row of the raw table into the formatted table",
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := loadMapping()
			if err != nil {
				return err
			}
			conn, err := db.NewConnection(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			sink := db.NewSink(conn.DB, mapping.Formatted)
			if err := sink.EnsureTable(cmd.Context()); err != nil {
				return err
			}

			proc := &formatter.Processor{
				Source:  db.NewSource(conn.DB, mapping.Raw, limit),
				Sink:    sink,
				Workers: workers,
			}
			if !noLink && mapping.Link.Name != "" {
				proc.Linker = db.NewLinker(conn.DB, mapping.Link, mapping.Formatted)
			}

			stats, err := proc.Run(cmd.Context(), debugFlag)
			if stats != nil {
				printStats(stats)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.GetEnvInt("BATCH_LIMIT", 0), "Only read the first N rows (0 = all)")
	cmd.Flags().IntVar(&workers, "workers", config.GetEnvInt("WORKERS", 4), "Parallel workers")
	cmd.Flags().BoolVar(&noLink, "no-link", false, "Skip the link table update")
	return cmd
}

func createInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the formatted table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := loadMapping()
			if err != nil {
				return err
			}
			conn, err := db.NewConnection(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.NewSink(conn.DB, mapping.Formatted).EnsureTable(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Table %s ready\n", mapping.Formatted.Name)
			return nil
		},
	}
}

func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := loadMapping()
			if err != nil {
				return err
			}
			conn, err := db.NewConnection(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			fmt.Println(green("Database connection successful!"))

			n, err := db.CountRows(cmd.Context(), conn.DB, mapping.Raw.Name)
			if err != nil {
				fmt.Println(red(err.Error()))
				return nil
			}
			fmt.Printf("Raw addresses in %s: %d\n", mapping.Raw.Name, n)
			return nil
		},
	}
}

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := web.ConfigFromEnv()
			cfg.Debug = debugFlag
			return web.NewServer(cfg).Start(cmd.Context())
		},
	}
}
