package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/1broseidon/aerosnap/internal/ipc"
	"github.com/1broseidon/aerosnap/internal/runtimepath"
	"github.com/fatih/color"
)

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: aerosnap ctl <status|toggle|enable|disable|reload|monitors> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Control a running 'aerosnap demo' over its control socket.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --display DISPLAY   X display of the demo (default: $DISPLAY)")
	fmt.Fprintln(w, "  --socket PATH       Control socket path (overrides --display)")
	fmt.Fprintln(w, "  --json              Output JSON (status, monitors)")
}

func runCtl(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printCtlUsage(stderr)
		return 2
	}
	sub := args[0]

	fs := flag.NewFlagSet("ctl "+sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	display := fs.String("display", "", "X display of the demo")
	socket := fs.String("socket", "", "Control socket path")
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() { printCtlUsage(stderr) }
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path := *socket
	if path == "" {
		p, err := runtimepath.SocketPath(*display)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		path = p
	}
	client := ipc.NewClient(path)

	switch sub {
	case "status":
		status, err := client.GetStatus()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if *jsonOut {
			return writeJSON(stdout, stderr, status)
		}
		disableColorUnlessTTY(stdout)
		printStatus(stdout, status)
		return 0

	case "toggle":
		enabled, err := client.Toggle()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "snapping %s\n", onOff(enabled))
		return 0

	case "enable", "disable":
		enabled := sub == "enable"
		if err := client.SetEnabled(enabled); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "snapping %s\n", onOff(enabled))
		return 0

	case "reload":
		if err := client.Reload(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config reloaded")
		return 0

	case "monitors":
		data, err := client.GetMonitors()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if *jsonOut {
			return writeJSON(stdout, stderr, data.Monitors)
		}
		for _, m := range data.Monitors {
			primary := ""
			if m.Primary {
				primary = " (primary)"
			}
			fmt.Fprintf(stdout, "%d %s%s %dx%d+%d+%d reserved=%dpx\n",
				m.ID, m.Name, primary, m.Width, m.Height, m.X, m.Y, m.Reserved)
		}
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown ctl command: %s\n\n", sub)
		printCtlUsage(stderr)
		return 2
	}
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	state := color.New(color.FgGreen)
	if !s.Enabled {
		state = color.New(color.FgYellow)
	}
	fmt.Fprint(w, "snapping: ")
	state.Fprintln(w, onOff(s.Enabled))
	fmt.Fprintf(w, "half-snap: %s\n", onOff(s.HalfSnap))
	if s.Dragging {
		fmt.Fprintf(w, "dragging: yes (zone %s)\n", s.Zone)
	} else {
		fmt.Fprintln(w, "dragging: no")
	}
	fmt.Fprintf(w, "overlay:  %s\n", s.Overlay)
	if s.Window != nil {
		fmt.Fprintf(w, "window:   %dx%d+%d+%d\n", s.Window.Width, s.Window.Height, s.Window.X, s.Window.Y)
	}
	for _, keys := range s.Hotkeys {
		fmt.Fprintf(w, "hotkey:   %s\n", keys)
	}
	if s.ConfigPath != "" {
		fmt.Fprintf(w, "config:   %s\n", s.ConfigPath)
	}
	fmt.Fprintf(w, "uptime:   %ds\n", s.UptimeSeconds)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
