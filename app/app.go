package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaspanet/ledgerd/infrastructure/config"
	infrastructuredatabase "github.com/kaspanet/ledgerd/infrastructure/db/database"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/infrastructure/os/signal"
	"github.com/kaspanet/ledgerd/util/panics"
	"github.com/kaspanet/ledgerd/util/profiling"
	"github.com/kaspanet/ledgerd/version"
	"github.com/pkg/errors"
)

const databaseDirName = "ledger"

type ledgerdApp struct {
	cfg *config.Config
}

// StartApp starts the ledgerd app, and blocks until it finishes running
func StartApp() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger.InitLog(cfg.LogFile, cfg.ErrLogFile)
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "MAIN", nil)

	app := &ledgerdApp{cfg: cfg}
	return app.main(nil)
}

func (app *ledgerdApp) main(startedChan chan<- struct{}) error {
	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the RPC server.
	interrupt := signal.InterruptListener()
	defer log.Info("Shutdown complete")

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if app.cfg.Profile != "" {
		profiling.Start(app.cfg.Profile, log)
	}

	// Open the database
	databaseContext, err := openDB(app.cfg)
	if err != nil {
		log.Errorf("Loading database failed: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	// Create componentManager and start it.
	componentManager, err := NewComponentManager(app.cfg, databaseContext)
	if err != nil {
		log.Errorf("Unable to start ledgerd: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down ledgerd...")
		componentManager.Stop()
	}()

	componentManager.Start()

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems such as the RPC
	// server.
	<-interrupt
	return nil
}

func databasePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, databaseDirName)
}

func openDB(cfg *config.Config) (infrastructuredatabase.Database, error) {
	dbPath := databasePath(cfg)
	err := os.MkdirAll(dbPath, 0700)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create the database directory %s", dbPath)
	}

	doesVersionFileExist, err := checkDatabaseVersion(dbPath)
	if err != nil {
		return nil, err
	}

	log.Infof("Loading database from '%s'", dbPath)
	db, err := ldb.NewLevelDB(dbPath, cfg.LevelDBCacheSizeMiB)
	if err != nil {
		return nil, err
	}

	if !doesVersionFileExist {
		err := createDatabaseVersionFile(dbPath)
		if err != nil {
			return nil, err
		}
	}

	return db, nil
}
