package device

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ai-for-future/server/internal/studio/model"
	logx "github.com/ai-for-future/server/pkg/logger"
)

// Registry is the in-memory simulated device registry. It owns the
// authoritative device list; the interpreter only reads a snapshot and
// returns a diff, which the owner applies here.
type Registry struct {
	mu      sync.RWMutex
	devices []model.Device
}

// NewRegistry builds a registry from seed devices. Devices without an ID get
// a generated one so IDs are always stable and unique.
func NewRegistry(devices []model.Device) (*Registry, error) {
	seen := make(map[string]bool, len(devices))
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate device id %q", d.ID)
		}
		seen[d.ID] = true
		if !model.LegalStatus(d.Category, d.Status) {
			return nil, fmt.Errorf("device %q: status %q is not legal for category %q", d.Name, d.Status, d.Category)
		}
		out = append(out, d)
	}
	return &Registry{devices: out}, nil
}

type seedFile struct {
	Devices []model.Device `yaml:"devices"`
}

// LoadRegistry reads a YAML seed file. A missing path falls back to the
// built-in default devices so the simulation can start without any setup.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn().Str("path", path).Msg("Device seed file not found, using defaults")
			return NewRegistry(DefaultDevices())
		}
		return nil, fmt.Errorf("read device seed %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse device seed %s: %w", path, err)
	}
	if len(seed.Devices) == 0 {
		return nil, fmt.Errorf("device seed %s lists no devices", path)
	}
	return NewRegistry(seed.Devices)
}

// DefaultDevices returns the built-in simulated home setup.
func DefaultDevices() []model.Device {
	return []model.Device{
		{ID: "1", Name: "Living Room Light", Category: model.CategoryLight, Status: model.StatusOff, Value: 0, Location: "Living Room"},
		{ID: "2", Name: "Main Laptop", Category: model.CategoryComputer, Status: model.StatusOn, Location: "Office"},
		{ID: "3", Name: "Front Door", Category: model.CategoryLock, Status: model.StatusLocked, Location: "Entrance"},
		{ID: "4", Name: "Thermostat", Category: model.CategoryThermostat, Status: model.StatusOn, Value: 72, Location: "Hallway"},
	}
}

// List returns a snapshot copy of the current device list in registry order.
func (r *Registry) List() []model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Apply persists one diff into the registry. Status changes that are illegal
// for the device's category are rejected, so model output can never move a
// lock to "on" or a light to "locked".
func (r *Registry) Apply(diff *model.DeviceDiff) error {
	if diff == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.devices {
		if r.devices[i].ID != diff.DeviceID {
			continue
		}
		if diff.Status != nil {
			if !model.LegalStatus(r.devices[i].Category, *diff.Status) {
				return fmt.Errorf("status %q is not legal for category %q", *diff.Status, r.devices[i].Category)
			}
			r.devices[i].Status = *diff.Status
		}
		if diff.Value != nil {
			r.devices[i].Value = diff.Value
		}
		return nil
	}
	return fmt.Errorf("unknown device id %q", diff.DeviceID)
}
