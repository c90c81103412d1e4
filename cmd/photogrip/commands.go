package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"photogrip/internal/config"
	"photogrip/internal/domain"
	"photogrip/internal/kvstore"
	"photogrip/internal/logger"
	"photogrip/internal/ui/services/suggestions"
)

// searchCmd prints one page of results without starting the TUI
func searchCmd(configPath, logLevel *string) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print one page of search results",
		Long:  "Searches photos and prints one page. An empty query prints the recent feed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return errors.Newf("page must be at least 1, got %d", page)
			}
			a, err := newApp(*configPath, *logLevel)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Search.FetchTimeout.Duration)
			defer cancel()

			var result domain.PhotoPage
			if args[0] == "" {
				result, err = a.client.Recent(ctx, page, a.cfg.Search.PerPage)
			} else {
				result, err = a.client.Search(ctx, args[0], page, a.cfg.Search.PerPage)
			}
			if err != nil {
				return err
			}
			printPage(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to print")
	return cmd
}

func printPage(cmd *cobra.Command, result domain.PhotoPage) {
	out := cmd.OutOrStdout()
	if len(result.Photos) == 0 {
		fmt.Fprintln(out, "No photos are present matching this query")
		return
	}
	fmt.Fprintf(out, "page %d of %d (%d photos)\n", result.Page, result.Pages, result.Total)
	offset := (result.Page - 1) * result.PerPage
	for i, p := range result.Photos {
		fmt.Fprintf(out, "%4d. %s\n      %s\n", offset+i+1, p.DisplayTitle(), p.URL())
	}
}

// suggestionsCmd lists and clears remembered searches
func suggestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "List remembered searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSuggestions(*configPath, func(s *suggestions.Service) error {
				for _, q := range s.All() {
					fmt.Fprintln(cmd.OutOrStdout(), q)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every remembered search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSuggestions(*configPath, func(s *suggestions.Service) error {
				n := len(s.All())
				if err := s.Forget(); err != nil {
					return errors.Wrap(err, "failed to clear suggestions")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d suggestions\n", n)
				return nil
			})
		},
	})
	return cmd
}

func withSuggestions(configPath string, fn func(*suggestions.Service) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	store, err := kvstore.OpenBolt(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(suggestions.NewService(store, nil, logger.Discard(), cfg.Search.SuggestionMinChars))
}

// configCmd manages the config file
func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService()
			if *configPath != "" {
				svc = config.NewConfigServiceAt(*configPath)
			}
			if _, err := os.Stat(svc.Path()); err == nil && !force {
				return errors.Newf("%s already exists (use --force to overwrite)", svc.Path())
			}
			if err := svc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svc.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			svc := config.NewConfigService()
			if *configPath != "" {
				svc = config.NewConfigServiceAt(*configPath)
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Path())
		},
	})
	return cmd
}
