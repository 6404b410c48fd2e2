// Package main is the entry point for fzquery, an interactive command-line
// search tool. It queries a web search engine or a Stack Exchange site,
// renders the result titles in an external fuzzy picker, and prints the URL
// of the selected item to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quickfz/fzquery/internal/config"
	"github.com/quickfz/fzquery/internal/controller"
	"github.com/quickfz/fzquery/internal/picker"
	"github.com/quickfz/fzquery/internal/provider"
)

const version = "0.2.0"

var (
	colorBold = color.New(color.Bold)
	colorCyan = color.New(color.FgCyan)
	colorErr  = color.New(color.FgRed)
)

func main() {
	// Stdout carries only the selected URL (or list/JSON output);
	// everything else goes to stderr.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, controller.ErrAborted) {
			colorErr.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()

	var (
		providerName string
		pageSize     int
		site         string
		pickerBin    string
		configPath   string
		listMode     bool
		jsonMode     bool
		openAfter    bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:     "fzquery [flags] QUERY...",
		Short:   "Search the web and fuzzy-pick a result",
		Version: version,
		Long: `fzquery searches a provider (Google or a Stack Exchange site), shows the
result titles in fzf, and prints the URL of the item you pick.

Inside the picker, ctrl-n fetches the next page of results and ctrl-p goes
back. Pages are cached, so paging back and forth never refetches.`,
		Example: `  fzquery golang slices tricks
  fzquery --provider stackexchange how do I exit vim
  fzquery --provider stackexchange --site serverfault nginx 502
  fzquery --list --pagesize 10 rust lifetimes`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Flags win over the config file; the file wins over
			// built-in defaults.
			if !cmd.Flags().Changed("provider") {
				providerName = cfg.Provider
			}
			if !cmd.Flags().Changed("pagesize") {
				pageSize = cfg.PageSize
			}
			if !cmd.Flags().Changed("site") {
				site = cfg.Site
			}
			if !cmd.Flags().Changed("picker") {
				pickerBin = cfg.Picker
			}
			if pageSize <= 0 {
				return fmt.Errorf("pagesize must be positive, got %d", pageSize)
			}

			query := strings.Join(args, " ")
			opts := runOptions{
				query:     query,
				provider:  providerName,
				pageSize:  pageSize,
				site:      site,
				pickerBin: pickerBin,
				list:      listMode,
				json:      jsonMode,
				open:      openAfter,
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "P", defaults.Provider, "search provider: google or stackexchange")
	cmd.Flags().IntVarP(&pageSize, "pagesize", "n", defaults.PageSize, "results per page")
	cmd.Flags().StringVarP(&site, "site", "s", defaults.Site, "Stack Exchange site (stackexchange provider only)")
	cmd.Flags().StringVar(&pickerBin, "picker", defaults.Picker, "fuzzy picker binary")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/fzquery/config.toml)")
	cmd.Flags().BoolVarP(&listMode, "list", "l", false, "print the first page instead of opening the picker")
	cmd.Flags().BoolVarP(&jsonMode, "json", "j", false, "print the first page as JSON")
	cmd.Flags().BoolVarP(&openAfter, "open", "o", false, "open the selected URL in the browser")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

type runOptions struct {
	query     string
	provider  string
	pageSize  int
	site      string
	pickerBin string
	list      bool
	json      bool
	open      bool
}

func run(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	prov, err := newProvider(opts.provider, opts.site)
	if err != nil {
		return err
	}
	log.Debug().Str("provider", prov.Name()).Str("query", opts.query).Msg("starting search")

	if opts.list || opts.json {
		results, err := prov.FetchPage(ctx, opts.query, 1, opts.pageSize)
		if err != nil {
			return err
		}
		if opts.json {
			return printJSON(results)
		}
		printList(opts.query, results)
		return nil
	}

	open := func(prompt string) (picker.Session, error) {
		return picker.Open(opts.pickerBin, prompt)
	}
	url, err := controller.New(prov, open, opts.pageSize).Run(ctx, opts.query)
	if err != nil {
		return err
	}

	fmt.Println(url)
	if opts.open {
		if err := openInBrowser(url); err != nil {
			log.Warn().Err(err).Msg("could not open browser")
		}
	}
	return nil
}

func newProvider(name, site string) (provider.Provider, error) {
	switch name {
	case "google", "web":
		return &provider.Web{}, nil
	case "stackexchange", "so":
		return &provider.StackExchange{Site: site}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want google or stackexchange)", name)
	}
}

func printList(query string, results []provider.Result) {
	if len(results) == 0 {
		fmt.Printf("No results for '%s'.\n", query)
		return
	}
	for i, r := range results {
		colorBold.Printf("[%d] %s\n", i, r.Title)
		colorCyan.Printf("    %s\n", r.URL)
	}
}

func printJSON(results []provider.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
