package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awaistahir/wattwise/internal/engine"
	"github.com/awaistahir/wattwise/internal/explain"
	"github.com/awaistahir/wattwise/internal/knowledge"
	"github.com/awaistahir/wattwise/internal/store"
)

var (
	cfgFile       string
	dbPath        string
	knowledgePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wattwise",
		Short: "WattWise - Calculate appliance energy consumption, cost, and what it compares to",
		Long: `WattWise turns an appliance's power draw and usage duration into energy
consumed (kWh), monetary cost, and an intuitive physical analogy.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wattwise/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default is $HOME/.wattwise/wattwise.db)")
	rootCmd.PersistentFlags().StringVar(&knowledgePath, "knowledge", "", "knowledge catalog file (default is the built-in catalog)")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(appliancesCmd())
	rootCmd.AddCommand(analogiesCmd())
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".wattwise")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()

	// Set defaults
	if dbPath == "" {
		if v := viper.GetString("db"); v != "" {
			dbPath = v
		} else {
			home, _ := os.UserHomeDir()
			dbPath = filepath.Join(home, ".wattwise", "wattwise.db")
		}
	}
	if knowledgePath == "" {
		knowledgePath = viper.GetString("knowledge_file")
	}
}

// loadKnowledge loads the catalog named by --knowledge, falling back to the
// embedded default. A malformed catalog is fatal: nothing can be calculated
// without valid reference data.
func loadKnowledge() (*knowledge.Base, error) {
	if knowledgePath != "" {
		return knowledge.LoadFile(knowledgePath)
	}
	return knowledge.Default()
}

func calcCmd() *cobra.Command {
	var (
		appliance string
		watts     float64
		minutes   float64
		rate      float64
		city      string
		asJSON    bool
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate energy consumption and cost for an appliance",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := loadKnowledge()
			if err != nil {
				return fmt.Errorf("loading knowledge base: %w", err)
			}

			// Resolve the rate: explicit flag wins, then city preset,
			// then configured defaults.
			if rate == 0 {
				if city == "" {
					city = viper.GetString("default_city")
				}
				if city != "" {
					cr, err := kb.LookupRate(city)
					if err != nil {
						return err
					}
					rate = cr.RatePerKWh
				} else {
					rate = viper.GetFloat64("default_rate")
				}
			}

			input := engine.UsageInput{
				Appliance:       appliance,
				DurationMinutes: minutes,
				RatePerKWh:      rate,
			}
			if watts > 0 {
				input.PowerWatts = &watts
			}

			result, err := engine.New(kb).Calculate(input)
			if err != nil {
				return err
			}

			explanation, err := explain.Compose(result)
			if err != nil {
				return err
			}

			if !noSave {
				if st, err := store.NewStore(dbPath); err == nil {
					if _, err := st.SaveCalculation(result, explanation); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: saving history: %v\n", err)
					}
					st.Close()
				} else {
					fmt.Fprintf(os.Stderr, "Warning: opening history database: %v\n", err)
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"result":      result,
					"explanation": explanation,
				})
			}

			fmt.Println(explanation)
			fmt.Printf("\n  Power:    %s W\n", explain.Decimal(result.PowerWatts, 1))
			fmt.Printf("  Duration: %s minutes\n", explain.Decimal(result.DurationMinutes, 2))
			fmt.Printf("  Energy:   %s kWh\n", explain.Decimal(result.EnergyKWh, 4))
			fmt.Printf("  Cost:     $%s at $%s/kWh\n", explain.Decimal(result.Cost, 4), explain.Decimal(result.RatePerKWh, 4))

			return nil
		},
	}

	cmd.Flags().StringVarP(&appliance, "appliance", "a", "", "Appliance name from the catalog (optional for custom devices)")
	cmd.Flags().Float64VarP(&watts, "watts", "w", 0, "Power override in watts (takes precedence over the catalog rating)")
	cmd.Flags().Float64VarP(&minutes, "minutes", "m", 0, "Usage duration in minutes")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 0, "Electricity rate in $/kWh")
	cmd.Flags().StringVarP(&city, "city", "c", "", "City rate preset (ignored when --rate is set)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip saving the result to history")

	cmd.MarkFlagRequired("minutes")

	return cmd
}

func appliancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "appliances",
		Short: "List catalog appliances",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := loadKnowledge()
			if err != nil {
				return fmt.Errorf("loading knowledge base: %w", err)
			}

			fmt.Printf("%-25s %10s  %-15s\n", "NAME", "WATTS", "CATEGORY")
			fmt.Println(strings.Repeat("-", 54))
			for _, a := range kb.Appliances() {
				fmt.Printf("%-25s %10.0f  %-15s\n", a.Name, a.PowerWatts, a.Category)
			}

			return nil
		},
	}
}

func analogiesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "analogies",
		Short: "List what 1 kWh is equivalent to",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := loadKnowledge()
			if err != nil {
				return fmt.Errorf("loading knowledge base: %w", err)
			}

			cat := knowledge.Category(category)
			if cat != "" && !cat.Valid() {
				return fmt.Errorf("unknown category: %s", category)
			}

			for _, t := range kb.Analogies(cat) {
				line := strings.ReplaceAll(t.DescriptionTemplate, "{n}", explain.Magnitude(t.PerKWh))
				fmt.Printf("1 kWh = %s (%s)\n", line, t.Category)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")

	return cmd
}

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "List city electricity rate presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := loadKnowledge()
			if err != nil {
				return fmt.Errorf("loading knowledge base: %w", err)
			}

			fmt.Printf("%-20s %12s\n", "CITY", "$/KWH")
			fmt.Println(strings.Repeat("-", 33))
			for _, r := range kb.Rates() {
				fmt.Printf("%-20s %12.2f\n", r.City, r.RatePerKWh)
			}

			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening history database: %w", err)
			}
			defer st.Close()

			entries, err := st.RecentCalculations(limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No calculations saved yet")
				return nil
			}

			for _, e := range entries {
				name := e.Result.Appliance
				if name == "" {
					name = "(custom device)"
				}
				fmt.Printf("%s  %-25s %8s kWh  $%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					name,
					explain.Decimal(e.Result.EnergyKWh, 4),
					explain.Decimal(e.Result.Cost, 4))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum entries to show")

	return cmd
}
