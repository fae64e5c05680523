package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deepfront/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagNoRecord    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deepfront SSH server",
	Long: `Start an SSH server that shows every connection a bot-versus-bot match.

Each SSH connection gets its own match with a fresh seed (or --seed for
all of them). Matches are recorded to --db unless --no-record is set.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.deepfront/host_key

Examples:
  deepfront serve                           # Listen on :23234 with auto-generated key
  deepfront serve --ssh :2222               # Listen on port 2222
  deepfront serve --host-key ./my_host_key  # Use specific host key
  deepfront serve --seed 42 --no-record     # Everyone watches the same field

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not record matches")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	if flagNoRecord {
		cfg.DBPath = ""
	}
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Ground = loadConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting deepfront SSH server on %s\n", server.Addr())
	if _, port, err := net.SplitHostPort(server.Addr()); err == nil {
		fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
