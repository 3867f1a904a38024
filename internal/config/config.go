// Package config holds the thermolink settings. Values come from the
// defaults below, an optional YAML file, and command line flags, in that
// order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Receiver.
	ListenAddr      string        `yaml:"listen_addr"`
	ReceiveTimeout  time.Duration `yaml:"receive_timeout"`
	DisplayInterval time.Duration `yaml:"display_interval"`
	Plain           bool          `yaml:"plain"`
	HistorySize     int           `yaml:"history_size"`
	WarnTemp        float64       `yaml:"warn_temp"`
	CritTemp        float64       `yaml:"crit_temp"`

	// Sender.
	PeerAddr     string        `yaml:"peer_addr"`
	SendBind     string        `yaml:"send_bind"`
	SendInterval time.Duration `yaml:"send_interval"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:3000",
		ReceiveTimeout:  2 * time.Second,
		DisplayInterval: 2 * time.Second,
		HistorySize:     300,
		WarnTemp:        30,
		CritTemp:        40,
		PeerAddr:        "127.0.0.1:3000",
		SendBind:        "127.0.0.1:3001",
		SendInterval:    time.Second,
		LogLevel:        "info",
		LogFile:         "thermolink.log",
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Flags registers the command line flags on fs. Call Apply after parsing
// to copy the flags the user actually set onto a Config.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFile string
	values     Config
}

func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	d := Default()
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "YAML config file")
	fs.StringVar(&f.values.ListenAddr, "listen", d.ListenAddr, "UDP address the thermometer binds")
	fs.DurationVar(&f.values.ReceiveTimeout, "timeout", d.ReceiveTimeout, "receive timeout per datagram")
	fs.DurationVar(&f.values.DisplayInterval, "interval", d.DisplayInterval, "display poll interval")
	fs.BoolVar(&f.values.Plain, "plain", d.Plain, "print readings as lines instead of the live monitor")
	fs.IntVar(&f.values.HistorySize, "history", d.HistorySize, "readings kept for the sparkline")
	fs.Float64Var(&f.values.WarnTemp, "warn-temp", d.WarnTemp, "temperature drawn as high")
	fs.Float64Var(&f.values.CritTemp, "crit-temp", d.CritTemp, "temperature drawn as critical")
	fs.StringVar(&f.values.PeerAddr, "peer", d.PeerAddr, "UDP address the sender writes to")
	fs.StringVar(&f.values.SendBind, "bind", d.SendBind, "UDP address the sender binds")
	fs.DurationVar(&f.values.SendInterval, "send-interval", d.SendInterval, "delay between datagrams")
	fs.StringVar(&f.values.LogLevel, "log-level", d.LogLevel, "debug, info, warn or error")
	fs.StringVar(&f.values.LogFile, "log-file", d.LogFile, "rotating log file, empty to disable")
	return f
}

// Resolve builds the effective Config: defaults, then the config file if
// one was given, then every flag the user set.
func (f *Flags) Resolve() (Config, error) {
	c := Default()
	if f.ConfigFile != "" {
		var err error
		if c, err = Load(f.ConfigFile); err != nil {
			return c, err
		}
	}
	f.Apply(&c)
	return c, c.Validate()
}

func (f *Flags) Apply(c *Config) {
	set := map[string]bool{}
	f.fs.Visit(func(fl *pflag.Flag) {
		set[fl.Name] = true
	})

	v := f.values
	if set["listen"] {
		c.ListenAddr = v.ListenAddr
	}
	if set["timeout"] {
		c.ReceiveTimeout = v.ReceiveTimeout
	}
	if set["interval"] {
		c.DisplayInterval = v.DisplayInterval
	}
	if set["plain"] {
		c.Plain = v.Plain
	}
	if set["history"] {
		c.HistorySize = v.HistorySize
	}
	if set["warn-temp"] {
		c.WarnTemp = v.WarnTemp
	}
	if set["crit-temp"] {
		c.CritTemp = v.CritTemp
	}
	if set["peer"] {
		c.PeerAddr = v.PeerAddr
	}
	if set["bind"] {
		c.SendBind = v.SendBind
	}
	if set["send-interval"] {
		c.SendInterval = v.SendInterval
	}
	if set["log-level"] {
		c.LogLevel = v.LogLevel
	}
	if set["log-file"] {
		c.LogFile = v.LogFile
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.PeerAddr == "" {
		errs = append(errs, errors.New("peer address is empty"))
	}
	if c.ReceiveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("receive timeout must be positive, got %v", c.ReceiveTimeout))
	}
	if c.DisplayInterval <= 0 {
		errs = append(errs, fmt.Errorf("display interval must be positive, got %v", c.DisplayInterval))
	}
	if c.SendInterval <= 0 {
		errs = append(errs, fmt.Errorf("send interval must be positive, got %v", c.SendInterval))
	}
	if c.HistorySize <= 0 {
		errs = append(errs, fmt.Errorf("history size must be positive, got %d", c.HistorySize))
	}
	return errors.Join(errs...)
}
