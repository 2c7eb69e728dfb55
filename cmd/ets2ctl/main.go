package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trucklab/ets2ctl/internal/supervisor"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitDeclined = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := buildRoot()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if errors.Is(err, supervisor.ErrAlreadyRunning) {
			return exitDeclined
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitFailure
	}
	return exitOK
}

func buildRoot() *cobra.Command {
	global := &GlobalFlags{}
	cmd := &command{global: global}

	root := &cobra.Command{
		Use:           "ets2ctl",
		Short:         "Manage the Euro Truck Simulator 2 dedicated server process",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "path to the TOML config file")

	root.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the server if it is not already running",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Start()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the server, escalating to SIGKILL if needed",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Stop()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "restart",
		Short: "Stop then start the server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Restart()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the server status as JSON",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Status()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "monitor",
		Short: "Check the server once and restart it if it is down",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Monitor()
		},
	})

	installFlags := InstallMonitorFlags{}
	install := &cobra.Command{
		Use:   "install-monitor",
		Short: "Register a recurring monitor job with the system scheduler",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.InstallMonitor(installFlags)
		},
	}
	install.Flags().IntVar(&installFlags.EveryMinutes, "every", 0, "monitor period in minutes (default from config)")
	root.AddCommand(install)

	root.AddCommand(&cobra.Command{
		Use:   "uninstall-monitor",
		Short: "Remove the monitor job from the system scheduler",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.UninstallMonitor()
		},
	})

	serveFlags := ServeFlags{}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run as a daemon with an in-process monitor and HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Serve(serveFlags)
		},
	}
	serve.Flags().StringVar(&serveFlags.Listen, "listen", "", "HTTP API listen address (overrides config)")
	root.AddCommand(serve)

	return root
}
