// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamed0406/statusmap/internal/config"
	"github.com/hamed0406/statusmap/internal/nagios"
	"github.com/hamed0406/statusmap/internal/probe"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.FromEnv()
	if err != nil {
		fail(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}

	if cfg.SlackWebhook == "" && cfg.TelegramBotToken == "" {
		warn("no SLACK_WEBHOOK or TELEGRAM_BOT_TOKEN; DOWN alerts will only be logged.")
	}
	if cfg.StaticDir == "" {
		warn("STATIC_DIR empty; only the JSON API will be served.")
	}

	checks := []probe.Checker{
		probe.EnvChecker{Keys: []string{"NAGIOS_URL", "NAGIOS_USER", "NAGIOS_PASS"}},
		probe.DNSChecker{Target: cfg.NagiosURL},
		probe.SitesChecker{Path: cfg.SitesFile},
	}
	if host := os.Getenv("PREFLIGHT_HOST"); host != "" {
		checks = append(checks, probe.NagiosChecker{
			Fetcher: nagios.NewClient(cfg.NagiosURL, cfg.NagiosUser, cfg.NagiosPass, cfg.NagiosTimeout),
			Host:    host,
		})
	}

	results, passed := probe.Run(context.Background(), checks...)
	for _, r := range results {
		if r.Success {
			ok(r.Name + ": " + r.Message)
		} else {
			fmt.Fprintln(os.Stderr, "✖", r.Name+": "+r.Message)
		}
	}
	if !passed {
		os.Exit(1)
	}
	ok("preflight passed")
}
