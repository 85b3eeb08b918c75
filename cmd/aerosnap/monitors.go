package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/1broseidon/aerosnap/internal/config"
	"github.com/1broseidon/aerosnap/internal/platform"
	"github.com/1broseidon/aerosnap/internal/snap"
	"github.com/fatih/color"
	"golang.org/x/term"
)

type monitorInfo struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Primary  bool          `json:"primary"`
	Bounds   platform.Rect `json:"bounds"`
	Reserved int           `json:"reserved"`
	Usable   platform.Rect `json:"usable"`
	// ReservedErr is set when the reserved height could not be read.
	ReservedErr string `json:"reserved_error,omitempty"`
}

func runMonitors(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display (default: config display or $DISPLAY)")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/aerosnap/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: aerosnap monitors [--display DISPLAY] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List monitors in the order the pointer crosses them, with the")
		fmt.Fprintln(os.Stderr, "reserved (taskbar) height and the usable snap area.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyDisplayEnv(cfg, *display)

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	infos, err := collectMonitors(backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	disableColorUnlessTTY(stdout)
	printMonitors(stdout, infos)
	return 0
}

// collectMonitors lists displays in left-to-right order with their usable areas.
func collectMonitors(d snap.Displays) ([]monitorInfo, error) {
	displays, err := d.Displays()
	if err != nil {
		return nil, err
	}
	if len(displays) == 0 {
		return nil, snap.ErrNoDisplays
	}

	// Order as the resolver partitions them.
	ordered := make([]platform.Display, len(displays))
	copy(ordered, displays)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Bounds.X < ordered[j].Bounds.X
	})

	infos := make([]monitorInfo, 0, len(ordered))
	for _, disp := range ordered {
		info := monitorInfo{
			ID:      disp.ID,
			Name:    disp.Name,
			Primary: disp.Primary,
			Bounds:  disp.Bounds,
		}
		reserved, err := d.ReservedHeight(disp)
		if err != nil {
			info.ReservedErr = err.Error()
			reserved = 0
		}
		m := snap.Monitor{Display: disp, Reserved: reserved}
		info.Reserved = reserved
		info.Usable = m.Usable()
		infos = append(infos, info)
	}
	return infos, nil
}

func printMonitors(w io.Writer, infos []monitorInfo) {
	name := color.New(color.FgCyan, color.Bold)
	primary := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	for _, m := range infos {
		name.Fprintf(w, "%d %s", m.ID, m.Name)
		if m.Primary {
			primary.Fprint(w, " (primary)")
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  bounds:   %s\n", formatRect(m.Bounds))
		fmt.Fprintf(w, "  reserved: %dpx\n", m.Reserved)
		if m.ReservedErr != "" {
			warn.Fprintf(w, "  warning:  reserved height unavailable: %s\n", m.ReservedErr)
		}
		fmt.Fprintf(w, "  usable:   %s\n", formatRect(m.Usable))
	}
}

// disableColorUnlessTTY turns color off when w is not a terminal.
func disableColorUnlessTTY(w io.Writer) {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		color.NoColor = true
	}
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// loadConfig loads the config at path, or the default location when empty.
func loadConfig(path string) (*config.Config, string, error) {
	p, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(p)
	if err != nil {
		return nil, "", err
	}
	return res.Config, p, nil
}

// applyDisplayEnv lets a flag override the configured display and exports
// the configured Xauthority file for the X connection.
func applyDisplayEnv(cfg *config.Config, displayFlag string) {
	if displayFlag != "" {
		cfg.Display = displayFlag
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
}
