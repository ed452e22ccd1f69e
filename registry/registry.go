package registry

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fulldump/docrest/collection"
	"github.com/fulldump/docrest/database"
	"github.com/fulldump/docrest/metrics"
	"github.com/fulldump/docrest/utils"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const (
	PublicIdField = "id"
)

type Config struct {
	Dir      string
	MaxLimit int
}

// Registry resolves database and collection names to open instances. Each
// name is resolved to an instance once; instances are never evicted and are
// closed by Stop.
type Registry struct {
	config    *Config
	status    atomic.Value
	databases *utils.OnceMap[*database.Database]
}

func New(config *Config) *Registry {
	r := &Registry{
		config:    config,
		databases: utils.NewOnceMap[*database.Database](),
	}
	r.status.Store(StatusOpening)
	return r
}

func (r *Registry) GetStatus() string {
	return r.status.Load().(string)
}

func (r *Registry) Start() error {

	zap.L().Info("starting registry", zap.String("dir", r.config.Dir))

	err := os.MkdirAll(r.config.Dir, 0755)
	if err != nil {
		r.status.Store(StatusClosing)
		return err
	}

	r.status.Store(StatusOperating)
	return nil
}

func (r *Registry) Stop() error {

	r.status.Store(StatusClosing)

	var lastErr error
	databases := r.databases.Snapshot()
	for _, name := range utils.GetKeys(databases) {
		zap.L().Info("closing database",
			zap.String("database", name),
			zap.Strings("collections", databases[name].ListCollections()),
		)
		err := databases[name].Close()
		if err != nil {
			zap.L().Error("close database", zap.String("database", name), zap.Error(err))
			lastErr = err
		}
	}

	return lastErr
}

// ResolveDatabase returns the database called name, creating its directory
// under the registry root on first use.
func (r *Registry) ResolveDatabase(name string) (*database.Database, error) {

	err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	db, created, err := r.databases.GetOrCreate(name, func() (*database.Database, error) {
		return database.NewDatabase(&database.Config{
			Name: name,
			Dir:  path.Join(r.config.Dir, name),
		})
	})
	if err != nil {
		return nil, err
	}

	if created {
		metrics.RegistryCreated.WithLabelValues("database").Inc()
		zap.L().Info("database resolved", zap.String("database", db.Name()), zap.String("dir", db.Dir()))
	}

	return db, nil
}

// ResolveModel returns the collection called name inside db. A new
// collection gets the identifier schema and the identifier hooks.
func (r *Registry) ResolveModel(name string, db *database.Database) (*collection.Collection, error) {

	err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	col, created, err := db.GetCollection(name, r.modelOptions())
	if err != nil {
		return nil, err
	}

	if created {
		metrics.RegistryCreated.WithLabelValues("collection").Inc()
	}

	return col, nil
}

// Resolve is ResolveDatabase followed by ResolveModel.
func (r *Registry) Resolve(databaseName, collectionName string) (*collection.Collection, error) {

	db, err := r.ResolveDatabase(databaseName)
	if err != nil {
		return nil, err
	}

	return r.ResolveModel(collectionName, db)
}

func (r *Registry) modelOptions() *collection.Options {

	patch := PatchIdentifier(PublicIdField, collection.IdField)

	return &collection.Options{
		Schema: map[string]string{
			PublicIdField: collection.TypeString,
		},
		Hooks: collection.Hooks{
			BeforeInsert: []collection.Hook{patch},
			BeforeUpdate: []collection.Hook{patch},
			BeforeDelete: []collection.Hook{patch},
		},
		MaxLimit: r.config.MaxLimit,
	}
}

// ValidateName rejects names that cannot be used as a single directory or
// file name below the registry root.
func ValidateName(name string) error {

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return &collection.Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("invalid name '%s'", name),
		}
	}

	return nil
}
