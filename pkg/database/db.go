package data

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/maskdaemon/pkg/database/dbconn"
	"github.com/tauraamui/maskdaemon/pkg/database/models"
	"github.com/tauraamui/maskdaemon/pkg/log"
	"github.com/tauraamui/xerror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	vendorName       = "tacusci"
	appName          = "maskdaemon"
	databaseFileName = "md.db"
	databaseEnvKey   = "MASK_DAEMON_DB"
)

var (
	ErrCreateDBFile    = xerror.New("unable to create database file")
	ErrDBAlreadyExists = xerror.New("database file already exists")
)

var uc = os.UserCacheDir
var fs = afero.NewOsFs()

// Setup creates the score history database file and its tables.
func Setup(path string) error {
	log.Info("Creating database file...")

	path, err := createFile(path)
	if err != nil {
		return err
	}

	db, err := Connect(path)
	if err != nil {
		return err
	}

	log.Info("Created score history database: %s", path)
	return db.Close()
}

// Destroy removes the database file. A missing file is not an error.
func Destroy(path string) error {
	dbFilePath, err := resolveDBPath(path, uc)
	if err != nil {
		return xerror.Errorf("unable to delete database file: %w", err)
	}

	if err := fs.Remove(dbFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerror.Errorf("unable to delete database file: %w", err)
	}
	return nil
}

// Connect opens the database at path, or at the default location when
// path is empty, and migrates its tables.
func Connect(path string) (dbconn.GormWrapper, error) {
	dbPath, err := resolveDBPath(path, uc)
	if err != nil {
		return nil, err
	}

	log.Debug("Connecting to DB: %s", dbPath)
	db, err := openDBConnection(dbPath)
	if err != nil {
		return nil, xerror.Errorf("unable to open db connection: %w", err)
	}

	err = models.AutoMigrate(db)
	if err != nil {
		return nil, xerror.Errorf("unable to run automigrations: %w", err)
	}

	return db, nil
}

var openDBConnection = func(path string) (dbconn.GormWrapper, error) {
	logger := logger.New(nil, logger.Config{LogLevel: logger.Silent})
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
	if err != nil {
		return nil, err
	}
	return dbconn.Wrap(db), nil
}

func resolveDBPath(path string, uc func() (string, error)) (string, error) {
	if len(path) > 0 {
		return path, nil
	}

	databasePath := os.Getenv(databaseEnvKey)
	if len(databasePath) > 0 {
		return databasePath, nil
	}

	databaseParentDir, err := uc()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s database file location: %w", databaseFileName, err)
	}

	return filepath.Join(
		databaseParentDir,
		vendorName,
		appName,
		databaseFileName), nil
}

func createFile(path string) (string, error) {
	path, err := resolveDBPath(path, uc)
	if err != nil {
		return "", err
	}

	if _, err := fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm) //nolint

		f, err := fs.Create(path)
		if err != nil {
			return "", xerror.Errorf("%v: %w", ErrCreateDBFile, err)
		}
		return path, f.Close()
	}

	return "", xerror.Errorf("%w: %s", ErrDBAlreadyExists, path)
}
