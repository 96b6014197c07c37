package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and WebSocket API",
		Long: "Serve POST /v1/analyze, /v1/highlight, /v1/similarity, /v1/grammar and /v1/translate, " +
			"GET /v1/quota and /health, and the live editing WebSocket at /v1/live.",
		Run: runServe,
	}
	cmd.Flags().StringP("addr", "a", envOr("QALAM_ADDR", ":8080"), "Listen address")
	cmd.Flags().String("origins", envOr("QALAM_ALLOWED_ORIGINS", "*"), "Comma-separated origins allowed on /v1/live")
	cmd.Flags().Duration("debounce", 1500*time.Millisecond, "Delay before a live grammar check")
	cmd.Flags().Duration("timeout", 3*time.Minute, "Provider request timeout")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	origins, _ := cmd.Flags().GetString("origins")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	svc, s, err := newService(true)
	if err != nil {
		exitErr("config", err)
	}
	defer s.Close()

	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc, server.Config{
		Addr:           addr,
		AllowedOrigins: allowed,
		Debounce:       debounce,
		RequestTimeout: timeout,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		exitErr("serve", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
