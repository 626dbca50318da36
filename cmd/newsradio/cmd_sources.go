package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/newsradio/internal/config"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd, sourcesEnableCmd, sourcesDisableCmd, sourcesToggleCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage news sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List news sources and their state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		on := color.New(color.FgGreen).SprintFunc()
		off := color.New(color.FgRed).SprintFunc()
		render := func(enabled bool) string {
			if enabled {
				return on("enabled")
			}
			return off("disabled")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tSTATE")
		fmt.Fprintf(w, "rss\t%s\n", render(cfg.Sources.RSS))
		fmt.Fprintf(w, "twitter\t%s\n", render(cfg.Sources.Twitter))
		fmt.Fprintf(w, "reddit\t%s\n", render(cfg.Sources.Reddit))
		return w.Flush()
	},
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable <source>",
	Short: "Enable a news source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSource(args[0], true)
	},
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable <source>",
	Short: "Disable a news source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSource(args[0], false)
	},
}

var sourcesToggleCmd = &cobra.Command{
	Use:   "toggle <source>",
	Short: "Flip a news source on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		var current bool
		switch args[0] {
		case "rss":
			current = cfg.Sources.RSS
		case "twitter":
			current = cfg.Sources.Twitter
		case "reddit":
			current = cfg.Sources.Reddit
		default:
			return fmt.Errorf("unknown source: %s (known: rss, twitter, reddit)", args[0])
		}
		return setSource(args[0], !current)
	},
}

func setSource(key string, on bool) error {
	cfg := loadConfig()
	switch key {
	case "rss":
		cfg.Sources.RSS = on
	case "twitter":
		cfg.Sources.Twitter = on
	case "reddit":
		cfg.Sources.Reddit = on
	default:
		return fmt.Errorf("unknown source: %s (known: rss, twitter, reddit)", key)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}
	state := "disabled"
	if on {
		state = "enabled"
	}
	fmt.Fprintf(os.Stdout, "Source %s %s.\n", key, state)
	return nil
}
