// Package config
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amirphl/set-cross/internal/tfutils"
	"gopkg.in/yaml.v3"
)

/*
YAML config example:
source: "yahoo"
symbol: "PTT"
suffix: ".BK"
interval: "1d"
from: "2015-01-01"
to: "2023-12-31"
ma_type: "sma"
fast_period: 50
slow_period: 200
rsi_period: 14
entry_marker: "Golden"
exit_marker: "Death"
strict_alternation: false
palette: ["Blue", "Orange", "Purple"]
chart_mode: "subplot"
chart_out: "PTT.html"
trades_out: "PTT-trades.csv"
heikin_ashi: false
log_level: "info"
log_file: "set-cross.log"
*/

const DateLayout = "2006-01-02"

// Date is a calendar day read as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, value.Value)
	if err != nil {
		return fmt.Errorf("date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

type Config struct {
	Source            string   `yaml:"source"`
	Symbol            string   `yaml:"symbol"`
	Suffix            string   `yaml:"suffix"`
	Interval          string   `yaml:"interval"`
	From              Date     `yaml:"from"`
	To                Date     `yaml:"to"` // zero means latest available
	MAType            string   `yaml:"ma_type"`
	FastPeriod        int      `yaml:"fast_period"`
	SlowPeriod        int      `yaml:"slow_period"`
	RSIPeriod         int      `yaml:"rsi_period"` // 0 disables
	EntryMarker       string   `yaml:"entry_marker"`
	ExitMarker        string   `yaml:"exit_marker"`
	StrictAlternation bool     `yaml:"strict_alternation"`
	Palette           []string `yaml:"palette"`
	ChartMode         string   `yaml:"chart_mode"`
	ChartOut          string   `yaml:"chart_out"`
	TradesOut         string   `yaml:"trades_out"` // empty skips the CSV
	HeikinAshi        bool     `yaml:"heikin_ashi"`
	LogLevel          string   `yaml:"log_level"`
	LogFile           string   `yaml:"log_file"`
	WallexAPIKey      string   `yaml:"wallex_api_key"`
}

// Load parses command line arguments (without the program name). Values from
// a -config YAML file override the flags.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("set-cross", flag.ContinueOnError)
	source := fs.String("source", "yahoo", "Market data source: yahoo or wallex")
	symbol := fs.String("symbol", "", "Ticker symbol, e.g. PTT or BTC-USDT")
	suffix := fs.String("suffix", ".BK", "Exchange suffix appended to Yahoo tickers")
	interval := fs.String("interval", "1d", "Bar interval: 1d, 1w or 1M")
	from := fs.String("from", time.Now().AddDate(-5, 0, 0).Format(DateLayout), "Start date (YYYY-MM-DD)")
	to := fs.String("to", "", "End date (YYYY-MM-DD), empty for latest")
	maType := fs.String("ma", "sma", "Moving average: sma or ema")
	fast := fs.Int("fast", 50, "Fast moving average period")
	slow := fs.Int("slow", 200, "Slow moving average period")
	rsiPeriod := fs.Int("rsi", 0, "RSI period shown in the indicator panel, 0 to disable")
	entry := fs.String("entry-marker", "Golden", "Substring that marks an entry signal")
	exit := fs.String("exit-marker", "Death", "Substring that marks an exit signal")
	strict := fs.Bool("strict", false, "Require every signal to alternate entry/exit")
	palette := fs.String("palette", "", "Comma-separated indicator colors")
	chartMode := fs.String("chart", "overlay", "Chart layout: overlay, subplot or none")
	chartOut := fs.String("out", "", "Chart HTML output path, defaults to <symbol>.html")
	tradesOut := fs.String("trades-out", "", "Trades CSV output path, empty to skip")
	heikinAshi := fs.Bool("heikin-ashi", false, "Draw Heikin Ashi candles")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile := fs.String("log-file", "set-cross.log", "Log file, empty to log to stderr only")
	configFile := fs.String("config", "", "Path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Source:            *source,
		Symbol:            *symbol,
		Suffix:            *suffix,
		Interval:          *interval,
		MAType:            *maType,
		FastPeriod:        *fast,
		SlowPeriod:        *slow,
		RSIPeriod:         *rsiPeriod,
		EntryMarker:       *entry,
		ExitMarker:        *exit,
		StrictAlternation: *strict,
		Palette:           splitList(*palette),
		ChartMode:         *chartMode,
		ChartOut:          *chartOut,
		TradesOut:         *tradesOut,
		HeikinAshi:        *heikinAshi,
		LogLevel:          *logLevel,
		LogFile:           *logFile,
		WallexAPIKey:      os.Getenv("WALLEX_API_KEY"),
	}

	var err error
	if cfg.From.Time, err = time.Parse(DateLayout, *from); err != nil {
		return Config{}, fmt.Errorf("parsing -from: %w", err)
	}
	if *to != "" {
		if cfg.To.Time, err = time.Parse(DateLayout, *to); err != nil {
			return Config{}, fmt.Errorf("parsing -to: %w", err)
		}
	}

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.ChartOut == "" && cfg.Symbol != "" {
		cfg.ChartOut = cfg.Symbol + ".html"
	}
	return cfg, cfg.Validate()
}

// MustLoadConfig loads the config from os.Args and exits on error.
func MustLoadConfig() Config {
	cfg, err := Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if c.Symbol == "" {
		errs = append(errs, errors.New("symbol is required"))
	}
	if c.Source != "yahoo" && c.Source != "wallex" {
		errs = append(errs, fmt.Errorf("unsupported source %q", c.Source))
	}
	if _, err := tfutils.ParseInterval(c.Interval); err != nil {
		errs = append(errs, err)
	}
	if c.MAType != "sma" && c.MAType != "ema" {
		errs = append(errs, fmt.Errorf("unsupported moving average %q", c.MAType))
	}
	if c.FastPeriod <= 0 || c.SlowPeriod <= 0 {
		errs = append(errs, errors.New("moving average periods must be positive"))
	} else if c.FastPeriod >= c.SlowPeriod {
		errs = append(errs, errors.New("fast period must be smaller than slow period"))
	}
	if c.RSIPeriod < 0 {
		errs = append(errs, errors.New("rsi period cannot be negative"))
	}
	if c.EntryMarker == "" || c.ExitMarker == "" {
		errs = append(errs, errors.New("entry and exit markers are required"))
	} else if c.EntryMarker == c.ExitMarker {
		errs = append(errs, errors.New("entry and exit markers must differ"))
	}
	switch c.ChartMode {
	case "overlay", "subplot", "none":
	default:
		errs = append(errs, fmt.Errorf("unsupported chart mode %q", c.ChartMode))
	}
	if c.From.IsZero() {
		errs = append(errs, errors.New("start date is required"))
	}
	if !c.To.IsZero() && !c.From.Before(c.To.Time) {
		errs = append(errs, errors.New("start date must be before end date"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
