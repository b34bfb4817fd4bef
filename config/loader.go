// Package config loads typed configuration structs from environment
// variables, with a .env file picked up once for local development.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer")
	ErrParsingConfig = errors.New("config: failed to parse environment")
)

var (
	mu     sync.RWMutex
	cache  = make(map[string]any)
	envDot sync.Once
)

// Load parses environment variables into v based on `env` struct tags.
// Each configuration type is parsed once per process; later calls return
// the cached copy, so concurrent initializers see identical values.
//
//	type ServerConfig struct {
//		Addr        string `env:"ADDR" envDefault:":8080"`
//		MaxBodySize int64  `env:"MAX_BODY_SIZE" envDefault:"1048576"`
//	}
func Load[T any](v *T) error {
	envDot.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	mu.RLock()
	cached, ok := cache[key]
	mu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics on failure; intended for
// configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Errorf("config: %w", err))
	}
}

// Reset drops the cache. Test isolation only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[string]any)
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.Name()
}
