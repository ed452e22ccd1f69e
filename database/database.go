package database

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/fulldump/docrest/collection"
	"github.com/fulldump/docrest/utils"
)

type Config struct {
	Name string
	Dir  string
}

// Database is a named root directory holding one log file per collection.
// Collections are opened on first use and kept open until Close.
type Database struct {
	config      *Config
	collections *utils.OnceMap[*collection.Collection]
}

func NewDatabase(config *Config) (*Database, error) {

	err := os.MkdirAll(config.Dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	return &Database{
		config:      config,
		collections: utils.NewOnceMap[*collection.Collection](),
	}, nil
}

func (db *Database) Name() string {
	return db.config.Name
}

func (db *Database) Dir() string {
	return db.config.Dir
}

// GetCollection returns the collection called name, opening it the first
// time. options are only used when the collection is opened, so whatever
// they attach is attached once. created reports whether this call opened it.
func (db *Database) GetCollection(name string, options *collection.Options) (col *collection.Collection, created bool, err error) {

	return db.collections.GetOrCreate(name, func() (*collection.Collection, error) {

		t0 := time.Now()
		filename := path.Join(db.config.Dir, name)
		col, err := collection.OpenCollection(filename, options)
		if err != nil {
			return nil, fmt.Errorf("open collection '%s': %w", name, err)
		}

		zap.L().Info("collection opened",
			zap.String("database", db.config.Name),
			zap.String("collection", name),
			zap.Int("documents", col.Len()),
			zap.Duration("elapsed", time.Since(t0)),
		)

		return col, nil
	})
}

// ListCollections returns the names of the open collections, sorted.
func (db *Database) ListCollections() []string {
	return utils.GetKeys(db.collections.Snapshot())
}

func (db *Database) Close() error {

	collections := db.collections.Snapshot()

	var errs []error
	for _, name := range utils.GetKeys(collections) {
		zap.L().Info("closing collection", zap.String("database", db.config.Name), zap.String("collection", name))
		err := collections[name].Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close(%s): %w", name, err))
		}
	}

	return errors.Join(errs...)
}
