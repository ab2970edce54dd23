package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the API reports healthy",
	Long: `Poll GET /health until the API and its database are up.

/health answers 503 while the database is unreachable, so a zero exit means
both are ready. Use it to gate migrations or seeding in deploy scripts.

Example:
  infraflowctl wait
  infraflowctl wait --port 8080 --retries 30 --interval 2s
  infraflowctl wait --url https://infraflow.internal/health`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")
		interval, _ := cmd.Flags().GetDuration("interval")
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = fmt.Sprintf("http://%s:%d/health", host, port)
		}

		if err := waitForHealth(os.Stderr, url, retries, interval); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("host", "localhost", "API host")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "API port")
	waitCmd.Flags().String("url", "", "Full health URL, overrides --host and --port")
	waitCmd.Flags().IntP("retries", "r", 90, "Attempts before giving up")
	waitCmd.Flags().Duration("interval", time.Second, "Pause between attempts")
}

// probeHealth performs one attempt and describes the outcome for the
// progress line: the database state when the body has one, else the status.
func probeHealth(client *http.Client, url string) (bool, string) {
	resp, err := client.Get(url)
	if err != nil {
		return false, "unreachable"
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Database string `json:"database"`
	}
	state := resp.Status
	if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Database != "" {
		state = "database " + body.Database
	}
	return resp.StatusCode < 300, state
}

// waitForHealth polls url up to retries times, writing one progress line per
// failed attempt to w.
func waitForHealth(w io.Writer, url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	last := "no attempt made"
	for attempt := 1; attempt <= retries; attempt++ {
		ok, state := probeHealth(client, url)
		if ok {
			fmt.Fprintf(w, "InfraFlow ready at %s (%s)\n", url, state)
			return nil
		}
		last = state
		fmt.Fprintf(w, "attempt %d/%d: %s\n", attempt, retries, state)
		time.Sleep(interval)
	}
	return fmt.Errorf("InfraFlow not ready after %d attempts: %s", retries, last)
}
