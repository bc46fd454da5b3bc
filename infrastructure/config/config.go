// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/util"
	"github.com/kaspanet/ledgerd/util/network"
	"github.com/kaspanet/ledgerd/version"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename   = "ledgerd.conf"
	defaultDataDirname      = "data"
	defaultLogLevel         = "info"
	defaultLogDirname       = "logs"
	defaultLogFilename      = "ledgerd.log"
	defaultErrLogFilename   = "ledgerd_err.log"
	defaultCrossChainPort   = "16610"
	defaultLevelDBCacheMiB  = 64
	defaultEventsBufferSize = 100
	defaultShutdownTimeout  = 30 * time.Second
)

var (
	// DefaultAppDir is the default home directory for ledgerd.
	DefaultAppDir = util.AppDataDir("ledgerd")

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultAppDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Flags defines the configuration options for ledgerd.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir      string `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir      string `long:"logdir" description:"Directory to log output."`
	LogLevel    string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65535"`

	ChainID string `long:"chainid" description:"Hex encoded 4 byte id of the chain this node keeps"`

	CrossChainListeners []string `long:"crosschainlisten" description:"Add an interface/port to serve side chains on (default all interfaces port: 16610)"`
	DisableCrossChain   bool     `long:"nocrosschain" description:"Do not serve side chains"`

	ParentChainAddress     string `long:"parentchain" description:"Address of the parent chain's cross chain server to index"`
	ParentChainID          string `long:"parentchainid" description:"Hex encoded 4 byte id of the parent chain"`
	ParentChainStartHeight uint64 `long:"parentchainstartheight" description:"First parent chain height to index if nothing was indexed yet"`

	MetricsListener string `long:"metricslisten" description:"Interface/port to serve prometheus metrics on, disabled if empty"`

	LevelDBCacheSizeMiB  int `long:"leveldbcachesize" description:"LevelDB block cache size in MiB"`
	BlockCacheSize       int `long:"blockcachesize" description:"Number of headers, bodies and canonical hashes to cache"`
	TransactionCacheSize int `long:"transactioncachesize" description:"Number of transactions and traces to cache"`
	StateCacheSize       int `long:"statecachesize" description:"Number of world state values to cache"`

	EventsBufferSize int           `long:"eventsbuffersize" description:"Number of chain events buffered for their consumer"`
	ShutdownTimeout  time.Duration `long:"shutdowntimeout" description:"How long to wait for an in flight rollback on shutdown before warning that it is still running. Valid time units are {s, m, h}"`
}

// Config defines the configuration options for ledgerd, including the
// parsed forms of the flags.
type Config struct {
	*Flags

	DataDir       string
	ActiveChainID *externalapi.DomainChainID
	ParentChain   *externalapi.DomainChainID
	LogFile       string
	ErrLogFile    string
	RemainingArgs []string
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:          defaultConfigFile,
		AppDir:              DefaultAppDir,
		LogDir:              defaultLogDir,
		LogLevel:            defaultLogLevel,
		LevelDBCacheSizeMiB: defaultLevelDBCacheMiB,
		EventsBufferSize:    defaultEventsBufferSize,
		ShutdownTimeout:     defaultShutdownTimeout,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in ledgerd functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options. Command line options always take
// precedence.
func loadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.IgnoreUnknown)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	cfg := &Config{
		Flags:         cfgFlags,
		RemainingArgs: remainingArgs,
	}
	err = cfg.resolve()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid
	// options.
	if configFileError != nil {
		log.Debugf("%s", configFileError)
	}

	return cfg, nil
}

// resolve validates the flags and fills in their parsed forms
func (cfg *Config) resolve() error {
	funcName := "loadConfig"

	if cfg.ChainID == "" {
		return errors.Errorf("%s: chainid is required", funcName)
	}
	chainID, err := externalapi.NewDomainChainIDFromString(cfg.ChainID)
	if err != nil {
		return errors.Wrapf(err, "%s: invalid chainid", funcName)
	}
	cfg.ActiveChainID = chainID

	if cfg.ParentChainAddress != "" {
		if cfg.ParentChainID == "" {
			return errors.Errorf("%s: parentchainid is required when parentchain is set", funcName)
		}
		cfg.ParentChain, err = externalapi.NewDomainChainIDFromString(cfg.ParentChainID)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid parentchainid", funcName)
		}
		if cfg.ParentChain.Equal(cfg.ActiveChainID) {
			return errors.Errorf("%s: a chain cannot index itself", funcName)
		}
		cfg.ParentChainAddress, err = network.NormalizeAddress(cfg.ParentChainAddress, defaultCrossChainPort)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid parentchain", funcName)
		}
	}

	if !cfg.DisableCrossChain {
		if len(cfg.CrossChainListeners) == 0 {
			cfg.CrossChainListeners = []string{net.JoinHostPort("", defaultCrossChainPort)}
		}
		cfg.CrossChainListeners, err = network.NormalizeAddresses(cfg.CrossChainListeners, defaultCrossChainPort)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid crosschainlisten", funcName)
		}
	}

	if cfg.Profile != "" {
		_, err := network.ParsePort(cfg.Profile, 1024)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid profile port", funcName)
		}
	}

	if cfg.LevelDBCacheSizeMiB <= 0 {
		return errors.Errorf("%s: leveldbcachesize must be positive", funcName)
	}
	if cfg.EventsBufferSize < 0 {
		return errors.Errorf("%s: eventsbuffersize cannot be negative", funcName)
	}

	// The data and log directories are namespaced per chain, so that
	// several chains can share an app directory.
	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	cfg.DataDir = filepath.Join(cfg.AppDir, defaultDataDirname, cfg.ActiveChainID.String())
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.ActiveChainID.String())
	cfg.LogFile = filepath.Join(cfg.LogDir, defaultLogFilename)
	cfg.ErrLogFile = filepath.Join(cfg.LogDir, defaultErrLogFilename)

	if cfg.LogLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}
	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "%s", funcName)
	}

	err = os.MkdirAll(cfg.DataDir, 0700)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to create the data directory", funcName)
	}
	return nil
}
