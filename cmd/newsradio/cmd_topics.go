package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/newsradio/internal/types"
)

func init() {
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show the covered-topic timeline of the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/api/topics", cfg.HTTP.Listen))
		if err != nil {
			return fmt.Errorf("reach daemon at %s (is it running?): %w", cfg.HTTP.Listen, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("daemon returned status %d", resp.StatusCode)
		}

		var topics []types.CoveredTopic
		if err := json.NewDecoder(resp.Body).Decode(&topics); err != nil {
			return fmt.Errorf("decode topics: %w", err)
		}

		if len(topics) == 0 {
			fmt.Println("No topics covered yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tITEMS\tSOURCES\tCOVERED")
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				t.Name,
				t.ItemCount,
				strings.Join(t.Sources, ", "),
				t.CoveredAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}
