package main

// Flag structs to decouple cobra from logic for testing.

// GlobalFlags holds persistent flags shared by all subcommands.
type GlobalFlags struct {
	ConfigPath string
}

// InstallMonitorFlags holds flags for the install-monitor command.
type InstallMonitorFlags struct {
	EveryMinutes int
}

// ServeFlags holds flags for the serve command.
type ServeFlags struct {
	Listen string // overrides [http].listen from the config
}
