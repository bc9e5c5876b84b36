package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ch-finder/internal/config"
	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/engine"
	"github.com/ch-finder/internal/export"
	"github.com/ch-finder/internal/inspect"
	"github.com/ch-finder/internal/postcode"
	"github.com/ch-finder/internal/profiles"
	"github.com/ch-finder/internal/web"
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "finder",
		Short: "Companies House multi-criteria company search",
		Long:  `Search UK companies by location, industry, accounts and owner demographics against a loaded Companies House data release`,
	}

	rootCmd.AddCommand(createSearchCmd())
	rootCmd.AddCommand(createCategoriesCmd())
	rootCmd.AddCommand(createProfilesCmd())
	rootCmd.AddCommand(createInspectCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// connect opens the shared database connection; commands that never touch
// the database skip it.
func connect() *db.Connection {
	conn, err := db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return conn
}

// createSearchCmd creates the search subcommand
func createSearchCmd() *cobra.Command {
	var (
		postcodeFlag  string
		radius        float64
		status        string
		categories    []string
		sicCodes      []int
		minCompanyAge int
		maxCompanyAge int
		minPSCAge     int
		maxPSCAge     int
		minTenure     int
		maxTenure     int
		strictTenure  bool
		maxResults    int
		asOfFlag      string
		profileName   string
		configPath    string
		outputPath    string
		formatFlag    string
		outputDir     string
		debugFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search companies around a postcode",
		Long: `Search companies within a radius of a UK postcode, filtered by industry
codes, account category, company age and owner demographics. Results are
ordered nearest first and written to a timestamped CSV or Excel file with
a companion .txt recording the command that produced them.`,
		Run: func(cmd *cobra.Command, args []string) {
			spec := engine.QuerySpec{}

			cfg, err := profiles.Load(configPath)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			profile := cfg.Defaults
			if profileName != "" {
				profile, err = cfg.Get(profileName)
				if err != nil {
					log.Fatalf("Failed to resolve profile: %v", err)
				}
			}
			profile.Apply(&spec)

			if profile.OutputFormat != nil && !cmd.Flags().Changed("format") {
				formatFlag = *profile.OutputFormat
			}
			if profile.OutputDir != nil && !cmd.Flags().Changed("output-dir") {
				outputDir = *profile.OutputDir
			}

			// Explicit flags override the profile
			flags := cmd.Flags()
			if flags.Changed("postcode") {
				spec.Postcode = postcodeFlag
			}
			if flags.Changed("radius") {
				spec.RadiusMiles = radius
			}
			if flags.Changed("status") {
				spec.CompanyStatus = status
			}
			if flags.Changed("account-category") {
				spec.AccountCategories = categories
			}
			if flags.Changed("sic") {
				spec.SICCodes = sicCodes
			}
			if flags.Changed("min-company-age") {
				spec.MinCompanyAge = &minCompanyAge
			}
			if flags.Changed("max-company-age") {
				spec.MaxCompanyAge = &maxCompanyAge
			}
			if flags.Changed("min-psc-age") {
				spec.MinPSCAge = &minPSCAge
			}
			if flags.Changed("max-psc-age") {
				spec.MaxPSCAge = &maxPSCAge
			}
			if flags.Changed("min-tenure") {
				spec.MinTenure = &minTenure
			}
			if flags.Changed("max-tenure") {
				spec.MaxTenure = &maxTenure
			}
			if flags.Changed("strict-tenure") {
				spec.StrictTenure = strictTenure
			}
			if flags.Changed("max-results") {
				spec.MaxResults = maxResults
			}

			asOf := time.Now().UTC()
			if asOfFlag != "" {
				asOf, err = time.Parse("2006-01-02", asOfFlag)
				if err != nil {
					log.Fatalf("Invalid --as-of date %q, expected YYYY-MM-DD", asOfFlag)
				}
			}

			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				log.Fatalf("%v", err)
			}

			conn := connect()
			defer conn.Close()

			searcher := engine.NewSearcher(conn)
			searcher.Debug = debugFlag

			start := time.Now()
			results, err := searcher.Search(spec, asOf)
			if err != nil {
				log.Fatalf("Search failed: %v", err)
			}

			fmt.Printf("\n=== Company Search Results ===\n")
			fmt.Printf("Postcode: %s\n", postcode.Normalize(spec.Postcode))
			fmt.Printf("Radius: %.1f miles\n", spec.RadiusMiles)
			fmt.Printf("As of: %s\n", asOf.Format("2006-01-02"))
			fmt.Printf("Matches: %d\n", len(results))
			fmt.Printf("Elapsed: %s\n", time.Since(start).Round(time.Millisecond))

			if len(results) == 0 {
				fmt.Println("\nNo companies matched. Try a larger radius or fewer filters;")
				fmt.Println("run 'finder categories' to see the valid account categories.")
				os.Exit(1)
			}

			printPreview(results)

			if outputPath == "" {
				outputPath = export.DefaultOutputPath(outputDir, format, time.Now())
			}
			if err := export.Write(outputPath, format, results); err != nil {
				log.Fatalf("Failed to write results: %v", err)
			}
			if err := export.WriteCommandLog(outputPath, os.Args, len(results), start); err != nil {
				log.Fatalf("Failed to write command log: %v", err)
			}
			fmt.Printf("\nResults written to %s\n", outputPath)
		},
	}

	cmd.Flags().StringVar(&postcodeFlag, "postcode", "", "Center postcode, e.g. 'SW1A 1AA'")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Search radius in miles (max 500)")
	cmd.Flags().StringVar(&status, "status", "", "Company status (default Active)")
	cmd.Flags().StringSliceVar(&categories, "account-category", nil, "Account categories to include")
	cmd.Flags().IntSliceVar(&sicCodes, "sic", nil, "5-digit SIC codes to include")
	cmd.Flags().IntVar(&minCompanyAge, "min-company-age", 0, "Minimum company age in years")
	cmd.Flags().IntVar(&maxCompanyAge, "max-company-age", 0, "Maximum company age in years")
	cmd.Flags().IntVar(&minPSCAge, "min-psc-age", 0, "Minimum PSC age in years")
	cmd.Flags().IntVar(&maxPSCAge, "max-psc-age", 0, "Maximum PSC age in years")
	cmd.Flags().IntVar(&minTenure, "min-tenure", 0, "Minimum PSC tenure in years")
	cmd.Flags().IntVar(&maxTenure, "max-tenure", 0, "Maximum PSC tenure in years")
	cmd.Flags().BoolVar(&strictTenure, "strict-tenure", false, "Require every current PSC inside the tenure range")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Cap on returned rows (0 = unlimited)")
	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "Pin derived ages to this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&profileName, "profile", "", "Named profile from the config file")
	cmd.Flags().StringVar(&configPath, "config", profiles.DefaultPath, "Path to the profiles config file")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file path (default timestamped)")
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for default output files")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Print query timing and diagnostics")

	return cmd
}

// printPreview shows the nearest matches on the console; the full set
// goes to the output file.
func printPreview(results []engine.CompanyResult) {
	const previewRows = 10

	fmt.Printf("\n%-10s %-40s %-10s %9s\n", "Number", "Name", "Postcode", "Miles")
	for i, r := range results {
		if i == previewRows {
			fmt.Printf("... and %d more\n", len(results)-previewRows)
			break
		}
		name := r.CompanyName
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		fmt.Printf("%-10s %-40s %-10s %9.2f\n", r.CompanyNumber, name, r.Postcode, r.DistanceMiles)
	}
}

// createCategoriesCmd lists the filter vocabularies
func createCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List valid account categories and company statuses",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Account categories:")
			for _, c := range engine.AccountCategories {
				fmt.Printf("  %-28s %s\n", c.Name, c.Description)
			}
			fmt.Println("\nCompany statuses:")
			for _, s := range engine.ValidStatuses {
				fmt.Printf("  %s\n", s)
			}
		},
	}
}

// createProfilesCmd lists saved search profiles
func createProfilesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List saved search profiles",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := profiles.Load(configPath)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			names := cfg.Names()
			if len(names) == 0 {
				fmt.Printf("No profiles defined in %s\n", configPath)
				return
			}

			fmt.Printf("Profiles in %s:\n", configPath)
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", profiles.DefaultPath, "Path to the profiles config file")
	return cmd
}

// createInspectCmd reports on the loaded data release
func createInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Report row counts and coverage for the loaded data release",
		Run: func(cmd *cobra.Command, args []string) {
			conn := connect()
			defer conn.Close()

			report, err := inspect.NewInspector(conn).Run()
			if err != nil {
				log.Fatalf("Inspection failed: %v", err)
			}
			report.Print(os.Stdout)
		},
	}
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			conn := connect()
			defer conn.Close()

			fmt.Println("Database connection successful!")

			var count int
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
				log.Printf("Error counting companies: %v", err)
			} else {
				fmt.Printf("Companies loaded: %d\n", count)
			}

			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM postcodes").Scan(&count); err != nil {
				log.Printf("Error counting postcodes: %v", err)
			} else {
				fmt.Printf("Postcodes loaded: %d\n", count)
			}
		},
	}
}

// createServeCmd starts the HTTP API
func createServeCmd() *cobra.Command {
	var (
		host         string
		port         int
		apiKey       string
		maxResults   int
		profilesPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			conn := connect()

			webConfig := web.DefaultConfig()
			webConfig.Server.Host = host
			webConfig.Server.Port = port
			webConfig.Search.MaxResults = maxResults
			webConfig.Data.ProfilesPath = profilesPath
			if apiKey != "" {
				webConfig.Auth.Enabled = true
				webConfig.Auth.APIKey = apiKey
			}

			server, err := web.NewServer(webConfig, conn)
			if err != nil {
				log.Fatalf("Failed to start server: %v", err)
			}
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", config.GetEnv("WEB_HOST", "0.0.0.0"), "Listen host")
	cmd.Flags().IntVar(&port, "port", config.GetEnvInt("WEB_PORT", 8080), "Listen port")
	cmd.Flags().StringVar(&apiKey, "api-key", config.GetEnv("API_KEY", ""), "Require this X-API-Key header on API calls")
	cmd.Flags().IntVar(&maxResults, "max-results", 1000, "Cap on rows per API search")
	cmd.Flags().StringVar(&profilesPath, "profiles-config", profiles.DefaultPath, "Path to the profiles config file")

	return cmd
}
