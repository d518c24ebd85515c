package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dferrer/studyflow/internal/config"
	"github.com/dferrer/studyflow/internal/export"
	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/tracker"
	"github.com/dferrer/studyflow/internal/tui"
	"github.com/dferrer/studyflow/internal/week"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "studyflow",
		Short:         "Personal study and practice tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, cfg, err := loadService(configPath)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			app := tui.NewApp(svc, cfg.RefreshInterval())
			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/studyflow/config.yaml)")

	root.AddCommand(newTemplateCmd())
	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newResetCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	return root
}

func loadService(configPath string) (*tracker.Service, config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, config.Config{}, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, config.Config{}, err
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open database: %w", err)
	}

	svc := tracker.NewService(s, cfg.UserID)
	if err := svc.Startup(); err != nil {
		s.Close()
		return nil, config.Config{}, err
	}
	return svc, cfg, nil
}

// newTemplateCmd needs no service: templates derive from the current
// date alone and never touch the database.
func newTemplateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an editable full-week task template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := export.WeekTemplate(time.Now())
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := export.WriteFile(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(configPath *string) *cobra.Command {
	var importType, date string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks and categories from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService(*configPath)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var payload export.Payload
			// Re-encode with the flag overrides, matching what the TUI
			// import dialog does.
			if importType != "" || date != "" {
				if err := json.Unmarshal(raw, &payload); err == nil {
					if importType != "" {
						payload.Type = importType
					}
					if date != "" {
						payload.Date = date
					}
					raw, _ = json.Marshal(payload)
				}
			}

			result, err := export.Import(svc.Store, svc.UserID, raw)
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	}
	cmd.Flags().StringVar(&importType, "type", "", "payload type: single-day or full-week")
	cmd.Flags().StringVar(&date, "date", "", "target date for single-day imports (YYYY-MM-DD)")
	return cmd
}

func newExportCmd(configPath *string) *cobra.Command {
	var out string
	var all bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current week (or all data) as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := loadService(*configPath)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			categories, err := svc.Store.ListCategories(svc.UserID)
			if err != nil {
				return err
			}

			var data []byte
			if all {
				tasks, err := svc.Store.ListTasks(svc.UserID, "")
				if err != nil {
					return err
				}
				sessions, err := svc.Store.ListSessionsSince(svc.UserID, "")
				if err != nil {
					return err
				}
				streak, err := svc.Store.GetStreak(svc.UserID)
				if err != nil {
					return err
				}
				data, err = export.All(tasks, categories, sessions, streak, time.Now())
				if err != nil {
					return err
				}
			} else {
				view, err := svc.Weeks.ViewFor(svc.UserID, week.MondayString(time.Now()))
				if err != nil {
					return err
				}
				data, err = export.Week(view, categories, time.Now())
				if err != nil {
					return err
				}
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := export.WriteFile(out, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "export all data instead of the current week")
	return cmd
}

func newResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Archive and clear this week's session ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := loadService(*configPath)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			if err := svc.Weeks.Reset(svc.UserID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "weekly progress reset")
			return nil
		},
	}
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print this week's practiced minutes per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := loadService(*configPath)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			stats, err := svc.Weeks.Stats(svc.UserID)
			if err != nil {
				return err
			}
			categories, err := svc.Store.ListCategories(svc.UserID)
			if err != nil {
				return err
			}
			names := map[string]string{}
			for _, c := range categories {
				names[c.ID] = c.Name
			}

			ids := make([]string, 0, len(stats))
			for id := range stats {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				name := names[id]
				if name == "" {
					name = id
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %4d min (%.1fh)\n", name, stats[id], float64(stats[id])/60)
			}
			return nil
		},
	}
}
