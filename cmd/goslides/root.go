package main

import (
	"context"
	"os"
	"strings"
	"time"

	goslides "github.com/VantageDataChat/GoSlides"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// config is the resolved configuration shared by all commands.
type config struct {
	SurfaceWidth  float64
	SurfaceHeight float64
	FontDirs      []string
	LogLevel      string
	LogFormat     string
	MirrorAddr    string
	FitDelay      time.Duration
	LockTimeout   time.Duration
}

// CLI wires cobra commands to a viper instance.
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
}

func newCLI() *CLI {
	cli := &CLI{viperInst: viper.New()}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// setupViperConfig sets defaults, the environment mapping and config file
// discovery. The file itself is read in PersistentPreRunE so --config works.
func (cli *CLI) setupViperConfig() {
	v := cli.viperInst
	v.SetDefault("surface.width", 1920)
	v.SetDefault("surface.height", 1080)
	v.SetDefault("fonts.dirs", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("mirror.addr", ":8650")
	v.SetDefault("autofit.delay", goslides.DefaultFitDelay)
	v.SetDefault("store.lock_timeout", 10*time.Second)

	// GOSLIDES_LOG_LEVEL -> log.level
	v.SetEnvPrefix("GOSLIDES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func (cli *CLI) readConfig(path string) error {
	v := cli.viperInst
	if path == "" {
		path = os.Getenv("GOSLIDES_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
	v.SetConfigName("goslides")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.goslides")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func (cli *CLI) createRootCommand() {
	var configPath string
	cli.rootCmd = &cobra.Command{
		Use:   "goslides",
		Short: "Inspect, normalise and present slide decks",
		Long: `goslides works with JSON slide decks.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (GOSLIDES_*, e.g. GOSLIDES_SURFACE_WIDTH)
3. Configuration file (--config, GOSLIDES_CONFIG, ./goslides.yaml, ~/.goslides/goslides.yaml)
4. Built-in defaults`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       goslides.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.readConfig(configPath); err != nil {
				return err
			}
			cfg := cli.config()
			return initLogging(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		},
	}
	pf := cli.rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file path")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Float64("width", 1920, "render surface width in pixels")
	pf.Float64("height", 1080, "render surface height in pixels")
	pf.StringSlice("font-dir", nil, "extra font directory (repeatable)")

	_ = cli.viperInst.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = cli.viperInst.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = cli.viperInst.BindPFlag("surface.width", pf.Lookup("width"))
	_ = cli.viperInst.BindPFlag("surface.height", pf.Lookup("height"))
	_ = cli.viperInst.BindPFlag("fonts.dirs", pf.Lookup("font-dir"))
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newInspectCommand(),
		cli.newFitCommand(),
		cli.newNormalizeCommand(),
		cli.newServeCommand(),
	)
}

// config resolves the current viper state.
func (cli *CLI) config() config {
	v := cli.viperInst
	return config{
		SurfaceWidth:  v.GetFloat64("surface.width"),
		SurfaceHeight: v.GetFloat64("surface.height"),
		FontDirs:      v.GetStringSlice("fonts.dirs"),
		LogLevel:      v.GetString("log.level"),
		LogFormat:     v.GetString("log.format"),
		MirrorAddr:    v.GetString("mirror.addr"),
		FitDelay:      v.GetDuration("autofit.delay"),
		LockTimeout:   v.GetDuration("store.lock_timeout"),
	}
}

// deckOptions builds engine options from the configuration. Fits run
// synchronously unless the caller installs a scheduler.
func (c config) deckOptions() *goslides.DeckOptions {
	opts := goslides.DefaultDeckOptions()
	opts.Measurer = goslides.NewFontCache(c.FontDirs...)
	opts.FitDelay = c.FitDelay
	opts.SurfaceWidth = c.SurfaceWidth
	opts.SurfaceHeight = c.SurfaceHeight
	return opts
}

// Execute runs the root command.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}
