package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/domain"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/types"
)

func TestLoad_RepositoryConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL())
	assert.Equal(t, domain.DefaultConstraints(), cfg.Scheduler.Constraints)
	assert.Equal(t, domain.DefaultOptimizationSettings(), cfg.Scheduler.Optimization)
	assert.Equal(t, scheduler.DefaultCatalog(), cfg.Scheduler.Catalog)
}

func TestParse_DefaultsAndOverrides(t *testing.T) {
	cfg, err := Parse(`
[server]
http_port = 9090

[scheduler.constraints]
room_setup_buffer = 20

[scheduler.optimization]
balance_workload = false
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 20, cfg.Scheduler.Constraints.RoomSetupBuffer)
	assert.Equal(t, domain.DefaultMaxConcurrentSurgeries, cfg.Scheduler.Constraints.MaxConcurrentSurgeries)
	assert.False(t, cfg.Scheduler.Optimization.BalanceWorkload)
	assert.True(t, cfg.Scheduler.Optimization.PrioritizeUrgentCases)
	assert.Equal(t, scheduler.DefaultCatalog(), cfg.Scheduler.Catalog)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=surgery_scheduler sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.Cache().Addr())
}

func TestParse_CustomCatalog(t *testing.T) {
	cfg, err := Parse(`
[[scheduler.catalog.rooms]]
id = "hybrid-or"
name = "Hybrid OR"
type = "operating"
size = 70
features = ["sterile", "imaging"]

[[scheduler.catalog.rooms.maintenance]]
date = "2024-01-08"
reason = "scanner calibration"

[[scheduler.catalog.slots]]
type = "CUSTOM"
start_time = "17:00"
end_time = "20:00"
`)
	require.NoError(t, err)

	require.Len(t, cfg.Scheduler.Catalog.Rooms, 1)
	room := cfg.Scheduler.Catalog.Rooms[0]
	assert.Equal(t, domain.RoomOperating, room.Type)
	assert.Equal(t, []scheduler.RoomMaintenance{{Date: "2024-01-08", Reason: "scanner calibration"}}, room.Maintenance)

	require.Len(t, cfg.Scheduler.Catalog.Slots, 1)
	assert.Equal(t, domain.SlotCustom, cfg.Scheduler.Catalog.Slots[0].Type)
	assert.Equal(t, types.MustTimeString("17:00"), cfg.Scheduler.Catalog.Slots[0].StartTime)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "broken toml", data: `[server`},
		{name: "bad port", data: "[server]\nhttp_port = 70000"},
		{name: "negative buffer", data: "[scheduler.constraints]\nroom_setup_buffer = -5"},
		{name: "reservation above one", data: "[scheduler.optimization]\nemergency_slot_reservation = 1.5"},
		{name: "redis without ttl", data: "[redis]\nenabled = true\ncache_ttl = 0"},
		{name: "bad slot time", data: "[[scheduler.catalog.slots]]\ntype = \"AM\"\nstart_time = \"8am\"\nend_time = \"12:00\""},
		{name: "inverted slot", data: "[[scheduler.catalog.slots]]\ntype = \"AM\"\nstart_time = \"12:00\"\nend_time = \"08:00\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
