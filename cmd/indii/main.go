// Package main is the entry point for the indii chat service and CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/indiimusic/indii/internal/chat"
	"github.com/indiimusic/indii/internal/config"
	"github.com/indiimusic/indii/internal/knowledge"
	"github.com/indiimusic/indii/internal/logging"
	"github.com/indiimusic/indii/internal/roles"
	"github.com/indiimusic/indii/internal/router"
	"github.com/indiimusic/indii/internal/server"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool
	cfg     *config.Config
	log     *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "indii",
		Short: "indii.music AI assistant service",
		Long: `indii answers music-industry questions in one of six assistant roles
(artist, fan, licensor, provider, legal, general), routing each prompt to the
first available AI provider.

Start the HTTP service:  indii serve
Ask a single question:   indii ask --role artist "plan my release"
List roles:              indii roles`,
		PersistentPreRunE: initLogging,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.indii/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("indii v%s\n", version)
		},
	})

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(rolesCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(knowledgeCmd())
	rootCmd.AddCommand(configCmd())

	err := rootCmd.Execute()
	if log != nil {
		_ = log.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG AND LOGGING INITIALIZATION
// ═══════════════════════════════════════════════════════════════════════════════

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFromPath(cfgPath)
	}
	return config.Load()
}

func initLogging(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c

	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Logging.Level)
	lc.JSON = cfg.Logging.Format == "json"
	lc.FilePath = cfg.Logging.File
	if verbose {
		lc.Level = logging.LevelDebug
	}

	log = logging.New(lc)
	logging.SetGlobal(log)

	log.Debug("Config loaded (default provider %s)", cfg.LLM.DefaultProvider)
	return nil
}

// buildHandler wires roles, router and chat handler from the loaded config.
func buildHandler(ctx context.Context) (*chat.Handler, *router.Router, error) {
	reg, err := roles.LoadFromFile(cfg.Roles.File)
	if err != nil {
		return nil, nil, err
	}

	r, err := router.FromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	h := chat.NewHandler(r,
		chat.WithRoles(reg),
		chat.WithAddress(cfg.Server.Addr()),
	)
	return h, r, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// SERVE COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, r, err := buildHandler(ctx)
			if err != nil {
				return err
			}
			if available := r.Available(); len(available) > 0 {
				log.Info("AI providers available: %s", strings.Join(available, ", "))
			} else {
				log.Warn("No AI provider configured; chat will answer with setup instructions")
			}

			srv := server.New(cfg.Server, h, r, knowledge.Default())

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// ASK COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func askCmd() *cobra.Command {
	var (
		role  string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Long: `Send a single chat message through the same path as the HTTP API.
Slash commands work too:

  indii ask --role artist "Help me plan my release"
  indii ask /roles`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			h, _, err := buildHandler(ctx)
			if err != nil {
				return err
			}

			resp, err := h.Handle(ctx, chat.Request{Message: strings.Join(args, " "), Role: role})
			if err != nil {
				return err
			}

			if plain {
				fmt.Println(resp.Reply)
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fmt.Println(resp.Reply)
				return nil
			}
			out, err := renderer.Render(resp.Reply)
			if err != nil {
				fmt.Println(resp.Reply)
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", roles.General, "assistant role id")
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// ROLES COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func rolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List assistant roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := roles.LoadFromFile(cfg.Roles.File)
			if err != nil {
				return err
			}

			muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
			for _, r := range reg.All() {
				title := lipgloss.NewStyle().
					Bold(true).
					Foreground(lipgloss.Color(r.Color)).
					Render(fmt.Sprintf("%s %s", r.Icon, r.Name))
				fmt.Printf("%s %s\n", title, muted.Render("("+r.ID+")"))
				fmt.Printf("  %s\n", r.Description)
				fmt.Printf("  %s\n\n", muted.Render(strings.Join(r.Expertise, " · ")))
			}
			return nil
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// HEALTH COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe every AI provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			r, err := router.FromConfig(ctx, cfg)
			if err != nil {
				return err
			}

			status := r.HealthCheck(ctx)
			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)

			ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
			bad := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
			for _, name := range names {
				h := status[name]
				switch {
				case h.Healthy:
					fmt.Printf("%-10s %s\n", name, ok.Render(fmt.Sprintf("healthy (%d)", h.Status)))
				case h.Error != "":
					fmt.Printf("%-10s %s\n", name, bad.Render(h.Error))
				default:
					fmt.Printf("%-10s %s\n", name, bad.Render(fmt.Sprintf("unhealthy (%d)", h.Status)))
				}
			}
			return nil
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// KNOWLEDGE COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "knowledge",
		Aliases: []string{"k"},
		Short:   "Inspect the built-in knowledge base",
	}

	var role string
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			log.Debug("Searching knowledge for: %q", query)

			results := knowledge.Default().Search(query, role)
			if len(results) == 0 {
				fmt.Println("No results.")
				return nil
			}
			for _, r := range results {
				fmt.Printf("[%s] %s\n  %s\n", r.Category, r.Path, r.Content)
			}
			return nil
		},
	}
	search.Flags().StringVarP(&role, "role", "r", "", "restrict to the knowledge seen by a role")
	cmd.AddCommand(search)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [role]",
		Short: "Print the knowledge a role's prompts include",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := knowledge.Default().ForRole(args[0]).JSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration (API keys masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cfg.ToYAML()
			if err != nil {
				return err
			}
			if !asJSON {
				fmt.Print(out)
				return nil
			}
			masked := struct {
				Server  config.ServerConfig  `json:"server"`
				Logging config.LoggingConfig `json:"logging"`
				Default string               `json:"default_provider"`
				Order   []string             `json:"fallback_order"`
			}{cfg.Server, cfg.Logging, cfg.LLM.DefaultProvider, cfg.LLM.FallbackOrder}
			data, err := json.MarshalIndent(masked, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "print server and logging settings as JSON")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			if cfgPath != "" {
				fmt.Println(cfgPath)
				return
			}
			home, err := os.UserHomeDir()
			if err != nil {
				home = "~"
			}
			fmt.Println(home + "/.indii/config.yaml")
		},
	})

	return cmd
}
