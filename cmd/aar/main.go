package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
	"github.com/windwardaviation/rescue10-aar/internal/engine"
	"github.com/windwardaviation/rescue10-aar/internal/mail"
	"github.com/windwardaviation/rescue10-aar/internal/render"
	"github.com/windwardaviation/rescue10-aar/internal/server"
	"github.com/windwardaviation/rescue10-aar/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "aar",
	Short: "Rescue 10 after-action review service",
	Long: `Collects a structured after-action review through a multi-step form,
renders it as a PDF, and emails it to the configured distribution list.

Run 'aar serve' to expose the form API, or 'aar submit --file report.json'
to push a report straight through the pipeline from the terminal.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("RESCUE10")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory (holds aar.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sectionsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(submitCmd())
}

func loadConfig() (*config.Config, error) {
	return config.LoadOptional(viper.GetString("workspace"))
}

func newLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newEngine(cfg *config.Config, log zerolog.Logger) (engine.Engine, error) {
	sender, err := mail.NewResendSender(os.Getenv("RESEND_API_KEY"))
	if err != nil {
		return engine.Engine{}, fmt.Errorf("RESEND_API_KEY is required to send reports: %w", err)
	}
	return engine.New(cfg, render.NewPDF(cfg), sender, log), nil
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger()
			e, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				Sessions: session.NewStore(cfg),
				App:      cfg,
				BasePath: basePath,
				Log:      log,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			log.Info().Str("addr", addr).Str("base_path", basePath).Msg("serving AAR API")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path")
	return cmd
}

func sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the report section catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cfg.Sections)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"#", "ID", "Title", "Description"})
			for i, s := range cfg.Sections {
				tw.AppendRow(table.Row{i + 1, s.ID, s.Title, s.Description})
			}
			tw.Render()
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Manage aar.yml"}
	cfgCmd.AddCommand(configInitCmd())
	cfgCmd.AddCommand(configShowCmd())
	return cfgCmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default aar.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"product":    cfg.Product,
				"mail":       cfg.Mail,
				"sections":   cfg.Sections,
				"configFile": config.Path(viper.GetString("workspace")),
			})
		},
	}
}

func submitCmd() *cobra.Command {
	var file, out string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a report from a JSON file",
		Long: `Reads a report (the same JSON shape the HTTP endpoint accepts) and runs
the submission pipeline. With --dry-run the PDF is written locally instead of
being emailed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var report domain.Report
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("invalid report json: %w", err)
			}
			log := newLogger()
			if dryRun {
				if !report.MissionDetailsComplete() {
					return errors.New("missing required fields: date, pilot name, and hoist operator are required")
				}
				pdf, err := render.NewPDF(cfg).Render(cmd.Context(), report)
				if err != nil {
					return err
				}
				target := out
				if target == "" {
					target = fmt.Sprintf("%s_AAR_%s.pdf", cfg.Product.ShortName, report.Date)
				}
				if err := os.WriteFile(target, pdf, 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", target)
				return nil
			}
			e, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			if err := e.Submit(cmd.Context(), report); err != nil {
				return err
			}
			fmt.Printf("report for %s submitted to %s\n",
				domain.DisplayDate(report.Date), strings.Join(cfg.Mail.Recipients, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "report JSON file")
	cmd.Flags().StringVar(&out, "out", "", "output path for --dry-run PDF")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the PDF locally instead of emailing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
