package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/awaistahir/wattwise/internal/knowledge"
	"github.com/awaistahir/wattwise/internal/store"
	"github.com/awaistahir/wattwise/internal/uiapi"
)

func main() {
	var port int
	var dbPath string
	var knowledgePath string

	rootCmd := &cobra.Command{
		Use:   "wattwised",
		Short: "WattWise HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

			// Set default db path
			if dbPath == "" {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".wattwise", "wattwise.db")
				os.MkdirAll(filepath.Dir(dbPath), 0755)
			}

			// Knowledge load happens once, before any request is served.
			var kb *knowledge.Base
			var err error
			if knowledgePath != "" {
				kb, err = knowledge.LoadFile(knowledgePath)
			} else {
				kb, err = knowledge.Default()
			}
			if err != nil {
				return fmt.Errorf("loading knowledge base: %w", err)
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			srv := uiapi.NewServer(kb, st)

			log.Info().
				Int("port", port).
				Str("db", dbPath).
				Int("appliances", len(kb.Appliances())).
				Int("analogies", len(kb.Analogies(""))).
				Msg("wattwised listening")

			addr := fmt.Sprintf(":%d", port)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "History database path")
	rootCmd.Flags().StringVar(&knowledgePath, "knowledge", "", "Knowledge catalog file (default is the built-in catalog)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
