package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skein/internal/aggregator"
	"skein/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve <paths...>",
	Short: "Watch files and serve the live web dashboard",
	Long: `Run the full pipeline — watch, tail, classify, aggregate — and expose
a web dashboard with a live entry stream, level counts and parse-failure
rate.

Examples:
  skein serve /var/log/app.log
  skein serve "/var/log/**/*.log" --port 9090`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "dashboard listen port")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nskein shutting down...")
		cancel()
		os.Exit(0)
	}()

	w, t, h, err := buildPipeline(args)
	if err != nil {
		return err
	}

	agg := aggregator.New(h.Subscribe(), h.Dropped, w.FileCount)

	go w.Start(ctx)
	go t.Start(ctx)
	go h.Start(ctx)
	go agg.Start(ctx)

	port := viper.GetString("port")
	fmt.Fprintf(os.Stderr, "skein watching %d file(s), dashboard on http://localhost:%s\n", w.FileCount(), port)

	srv := server.New(h, agg, port)
	return srv.Start()
}
