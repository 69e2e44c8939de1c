package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/hoard/internal/account"
	"github.com/mmcdole/hoard/internal/adapter"
	"github.com/mmcdole/hoard/internal/diskstat"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/download"
	"github.com/mmcdole/hoard/internal/pin"
	"github.com/mmcdole/hoard/internal/store"
	"github.com/mmcdole/hoard/internal/tui"
	"github.com/mmcdole/hoard/internal/tui/components"
	"github.com/mmcdole/hoard/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var (
		showVersion bool
		list        bool
		setPin      bool
		writeConfig bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&list, "list", false, "print downloads and exit; an optional argument filters by name")
	flag.BoolVar(&setPin, "set-pin", false, "set the PIN lock and exit")
	flag.BoolVar(&writeConfig, "write-config", false, "write the effective configuration and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("hoard %s\n", Version)
		return
	}

	var err error
	switch {
	case writeConfig:
		err = runWriteConfig()
	case list:
		err = withApp(func(a *app) error { return a.list(strings.Join(flag.Args(), " ")) })
	case setPin:
		err = withApp(func(a *app) error { return a.setPin() })
	default:
		err = withApp(func(a *app) error { return a.runTUI() })
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything the commands share
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *store.DataStore
	vm       *download.ViewModel
	accounts *account.Service
}

func withApp(fn func(a *app) error) (err error) {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		closeLog = func() error { return nil }
	}
	slog.SetDefault(logger)
	defer func() {
		err = errors.Join(err, closeLog())
	}()

	logger.Info("starting hoard", "version", Version)

	ds, err := store.NewDataStore(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    ds,
		vm:       download.NewViewModel(ds, diskstat.StatFilesystem, cfg.Downloads.Dir, logger),
		accounts: account.NewService(ds, logger),
	}
	return fn(a)
}

func (a *app) runTUI() error {
	acc, err := a.accounts.Default()
	if err != nil {
		return err
	}

	model := tui.NewModel(a.vm, a.accounts, acc, a.cfg.UI.RefreshInterval, a.logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI")

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

// list prints the ordered download summaries. A non-empty query keeps only
// shows whose name fuzzy-matches it.
func (a *app) list(query string) error {
	visual := waitWithSpinner("Scanning downloads...", a.vm.UpdateListAsync())

	if query != "" {
		names := make([]string, len(visual))
		for i, s := range visual {
			names[i] = s.Show.Name
		}
		keep := make(map[int]bool)
		for _, r := range fuzzy.RankFindFold(query, names) {
			keep[r.OriginalIndex] = true
		}
		filtered := visual[:0:0]
		for i, s := range visual {
			if keep[i] {
				filtered = append(filtered, s)
			}
		}
		visual = filtered
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tSIZE\tPROGRESS")
	for _, s := range visual {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f%%\n",
			s.Show.ID, s.Show.Name, components.Describe(s), components.FormatBytes(s), s.Progress()*100)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write list: %w", err)
	}

	if stat, err := diskstat.StatFilesystem(a.cfg.Downloads.Dir); err == nil {
		usage := diskstat.Usage(stat, download.TotalBytes(visual))
		fmt.Printf("\n%d items · downloads %s · used %s · free %s\n",
			len(visual),
			humanize.IBytes(uint64(usage.DownloadBytes)),
			humanize.IBytes(uint64(max(0, usage.UsedBytes))),
			humanize.IBytes(uint64(usage.AvailableBytes)))
	}
	return nil
}

// waitWithSpinner shows a spinner until ch delivers
func waitWithSpinner(label string, ch <-chan []domain.SummaryRecord) []domain.SummaryRecord {
	frame := 0
	fmt.Printf("\r%s %s", styles.SpinnerFrames[frame], label)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case visual := <-ch:
			fmt.Print(clearSpinnerLine)
			return visual
		case <-ticker.C:
			frame++
			fmt.Printf("\r%s %s", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)], label)
		}
	}
}

// setPin runs the PIN dialog on the terminal. An existing PIN must be
// entered first.
func (a *app) setPin() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("set-pin needs an interactive terminal")
	}

	acc, err := a.accounts.Default()
	if err != nil {
		return err
	}

	if secret := a.accounts.Secret(acc); secret != nil {
		if _, ok := promptPin(fd, secret); !ok {
			return domain.ErrPinMismatch
		}
	}

	value, ok := promptPin(fd, nil)
	if !ok {
		return errors.New("cancelled")
	}
	if _, err := a.accounts.SetPin(acc.ID, value); err != nil {
		return err
	}

	fmt.Println("✓ PIN saved")
	return nil
}

// promptPin feeds masked terminal lines into an editing dialog until it
// resolves. A nil secret asks for a new PIN. An empty line cancels.
func promptPin(fd int, secret pin.Secret) (string, bool) {
	var (
		result string
		ok     bool
	)
	d := pin.NewDialog(secret, true, func(value string, accepted bool) {
		result, ok = value, accepted
	})

	for !d.Done() {
		fmt.Printf("%s: ", d.Title())
		line, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil || len(line) == 0 {
			d.Cancel()
			break
		}

		switch d.Change(string(line)) {
		case pin.EventValid:
			d.Submit()
		case pin.EventTooShort, pin.EventIncorrect:
			fmt.Println(styles.ErrorStyle.Render(d.Error()))
		}
	}
	return result, ok
}

// runWriteConfig saves the effective configuration (defaults, file and env
// overrides merged) so it can be edited by hand.
func runWriteConfig() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("✓ Configuration saved!")
	return nil
}
