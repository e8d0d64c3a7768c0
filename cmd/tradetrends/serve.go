package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TradeTrends/internal/notifier"
	"TradeTrends/internal/scheduler"
	"TradeTrends/internal/server"
)

func serveCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API, scheduler and Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var tn *notifier.TelegramNotifier
			var sender scheduler.Sender
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sender = tn
			} else {
				log.Println("[INFO] Telegram not configured, digests will only be logged")
			}

			sched := scheduler.NewScheduler(ctx, a.pipeline, a.news, a.memo, sender, a.recorder, cfg.Watchlist)
			if err := sched.RegisterAll(cfg.Schedule.DigestCron, cfg.Schedule.PurgeCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}
			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] running digest on start")
				go sched.RunDigestNow()
			}

			srv := server.New(cfg.Server.Addr, cfg.Server.Debug, a.pipeline, a.collector, a.news, a.recorder)
			srv.StreamInterval = cfg.Server.StreamInterval

			log.Println("[INFO] TradeTrends is running. Press Ctrl+C to stop.")
			err = srv.Run(ctx)
			log.Println("[INFO] TradeTrends stopped")
			return err
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Send the watchlist digest immediately")
	return cmd
}
