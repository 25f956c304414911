package store

import (
	"context"
	"time"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/observability"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the file backend's project directory.
	Dir string
	// Path is the sqlite database file.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI string
	MongoDB  string
}

// Open creates the configured backend. The returned store reports loads and
// saves to the registered [observability.StoreHooks].
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		st = NewMemoryStore()
	case BackendFile, "":
		cfg.Backend = BackendFile
		st, err = NewFileStore(cfg.Dir)
	case BackendSQLite:
		st, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		st, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case BackendMongo:
		st, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, mkerrors.New(mkerrors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, mkerrors.Wrap(mkerrors.ErrCodeStorage, err, "open %s store", cfg.Backend)
	}
	return Instrument(cfg.Backend, st), nil
}

// Instrument wraps st so every Load and Save is reported to the store hooks
// under the given backend name.
func Instrument(backend string, st Store) Store {
	return &instrumented{Store: st, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Load(ctx context.Context, id string) (*Project, error) {
	start := time.Now()
	p, err := s.Store.Load(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return p, err
}

func (s *instrumented) Save(ctx context.Context, p *Project) error {
	start := time.Now()
	err := s.Store.Save(ctx, p)
	elements := 0
	if err == nil && p.Document != nil {
		for _, sc := range p.Document.Screens {
			elements += len(sc.Elements)
		}
	}
	observability.Store().OnSave(ctx, s.backend, p.ID, elements, time.Since(start), err)
	return err
}
