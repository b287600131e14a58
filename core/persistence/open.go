package persistence

import (
	"errors"
	"fmt"

	"messenger-core/core/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
	BackendRedis    = "redis"
	BackendMemcache = "memcache"
	BackendStorage  = "storage"
)

// Config selects the persistence backend.
type Config struct {
	// Backend is one of memory, database, redis, memcache or storage.
	Backend string `mapstructure:"backend" default:"memory"`
	// KeyPrefix namespaces every key.
	KeyPrefix string `mapstructure:"key_prefix" default:"messenger:"`
}

// Deps carries the connections a backend may need. Only the one matching
// Config.Backend has to be set.
type Deps struct {
	DB       *gorm.DB
	Redis    redis.Cmdable
	Memcache MemcacheClient
	Storage  storage.Client
	Bucket   string
}

// Open builds the configured store.
func Open(cfg Config, deps Deps) (Store, error) {
	var store Store
	switch cfg.Backend {
	case BackendMemory, "":
		store = NewMemory()
	case BackendDatabase:
		if deps.DB == nil {
			return nil, errors.New("database backend requires a database connection")
		}
		db := NewDatabase(deps.DB)
		if err := db.Migrate(); err != nil {
			return nil, err
		}
		store = db
	case BackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis backend requires a redis client")
		}
		store = NewRedis(deps.Redis)
	case BackendMemcache:
		if deps.Memcache == nil {
			return nil, errors.New("memcache backend requires a memcache client")
		}
		store = NewMemcache(deps.Memcache)
	case BackendStorage:
		if deps.Storage == nil || deps.Bucket == "" {
			return nil, errors.New("storage backend requires a storage client and bucket")
		}
		store = NewObject(deps.Storage, deps.Bucket)
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Backend)
	}
	return WithPrefix(store, cfg.KeyPrefix), nil
}
