package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Don-Green-Here/npdb/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "npdb", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5000, cfg.Database.BatchSize)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSec)
	assert.NotEmpty(t, cfg.Fetch.UserAgent)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestUpdateOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("db.example.org"),
		config.OptDatabasePort(5433),
		config.OptFetchTimeoutSec(10),
		config.OptJobsNumber(3),
		config.OptLogLevel("debug"),
	})

	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Fetch.TimeoutSec)
	assert.Equal(t, 3, cfg.JobsNumber)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInvalidOptionsKeepDefaults(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseHost("  "),
		config.OptDatabasePort(-1),
		config.OptLogLevel("verbose"),
		config.OptLogDestination("syslog"),
		config.OptFetchTimeoutSec(0),
	})

	def := config.New()
	assert.Equal(t, def.Database.Host, cfg.Database.Host)
	assert.Equal(t, def.Database.Port, cfg.Database.Port)
	assert.Equal(t, def.Log.Level, cfg.Log.Level)
	assert.Equal(t, def.Log.Destination, cfg.Log.Destination)
	assert.Equal(t, def.Fetch.TimeoutSec, cfg.Fetch.TimeoutSec)
}

func TestToOptionsRoundTrip(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptDatabaseUser("plants"),
		config.OptDatabaseDatabase("native_plants"),
		config.OptFetchTimeoutSec(25),
		config.OptLogFormat("text"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Equal(t, src.Database, dst.Database)
	assert.Equal(t, src.Fetch, dst.Fetch)
	assert.Equal(t, src.Log, dst.Log)
	assert.Equal(t, src.JobsNumber, dst.JobsNumber)
}

func TestToOptionsSkipsHomeDir(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{config.OptHomeDir("/home/plants")})

	dst := config.New()
	dst.Update(src.ToOptions())

	assert.Empty(t, dst.HomeDir, "HomeDir is runtime-only")
}

func TestPaths(t *testing.T) {
	home := filepath.Join("/", "home", "plants")

	assert.Equal(t,
		filepath.Join(home, ".config", "npdb"),
		config.ConfigDir(home),
	)
	assert.Equal(t,
		filepath.Join(home, ".config", "npdb", "config.yaml"),
		config.ConfigFilePath(home),
	)
	assert.Equal(t,
		filepath.Join(home, ".config", "npdb", "states.yaml"),
		config.StatesFilePath(home),
	)
	assert.Equal(t,
		filepath.Join(home, ".local", "share", "npdb", "logs"),
		config.LogDir(home),
	)
}
