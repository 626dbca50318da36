package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/newsradio/internal/backend"
	"github.com/user/newsradio/internal/health"
	"github.com/user/newsradio/internal/types"
)

var healthWatch bool

func init() {
	healthCmd.Flags().BoolVar(&healthWatch, "watch", false, "keep polling and report transitions")
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check news backend health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := backend.NewClient(cfg.Backend.URL)

		if healthWatch {
			return watchHealth(cfg.Backend.URL, cfg.Health.Interval, client)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status := client.CheckHealth(ctx)
		if status == nil {
			color.Red("backend offline (%s)", cfg.Backend.URL)
			os.Exit(1)
		}

		color.Green("backend online (%s)", cfg.Backend.URL)

		ok := color.New(color.FgGreen).SprintFunc()
		down := color.New(color.FgRed).SprintFunc()
		render := func(up bool) string {
			if up {
				return ok("up")
			}
			return down("down")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tSTATE")
		fmt.Fprintf(w, "redis\t%s\n", render(status.Services.Redis))
		fmt.Fprintf(w, "rss\t%s\n", render(status.Services.RSS))
		fmt.Fprintf(w, "reddit\t%s\n", render(status.Services.Reddit))
		fmt.Fprintf(w, "twitter\t%s\n", render(status.Services.Twitter))
		return w.Flush()
	},
}

// watchHealth polls at the configured interval and prints every transition
// until interrupted.
func watchHealth(url, interval string, client *backend.Client) error {
	monitor := health.New(client, interval, func(status *types.HealthStatus) {
		stamp := time.Now().Format("15:04:05")
		if status == nil {
			color.Red("%s backend offline (%s)", stamp, url)
			return
		}
		color.Green("%s backend online (%s)", stamp, status.Status)
	})
	if err := monitor.Start(); err != nil {
		return err
	}
	defer monitor.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	return nil
}
