// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan HAL backend

	"github.com/Sina-Ebrahimi/vortice/graphics"
	"github.com/Sina-Ebrahimi/vortice/internal/logging"
)

// maxFeatureLevel is the level matching the HAL core feature set.
const maxFeatureLevel = graphics.FeatureLevel120

func init() {
	graphics.Register(graphics.BackendNative, func() graphics.Backend {
		return New()
	})
}

// InstanceCreator creates HAL instances. hal.Backend values returned by
// hal.GetBackend satisfy it, as does the hal/noop API.
type InstanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Option configures a Backend.
type Option func(*Backend)

// WithAPI replaces the HAL entry point. The default is the Vulkan backend
// registered with the HAL.
func WithAPI(api InstanceCreator) Option {
	return func(b *Backend) { b.api = api }
}

// WithMaxFeatureLevel caps the feature level adapters accept.
func WithMaxFeatureLevel(l graphics.FeatureLevel) Option {
	return func(b *Backend) { b.maxLevel = l }
}

// WithLogger sets the logger used by the backend. Nil uses the shared
// vortice logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// Backend is the HAL backend.
type Backend struct {
	api      InstanceCreator
	maxLevel graphics.FeatureLevel
	logger   *slog.Logger
}

// New creates a HAL backend.
func New(opts ...Option) *Backend {
	b := &Backend{maxLevel: maxFeatureLevel}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns graphics.BackendNative.
func (b *Backend) Name() string { return graphics.BackendNative }

func (b *Backend) log() *slog.Logger { return logging.Or(b.logger) }

func (b *Backend) resolve() (InstanceCreator, error) {
	if b.api != nil {
		return b.api, nil
	}
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoHALBackend
	}
	return backend, nil
}

// Supported reports whether an instance can be created and exposes at least
// one adapter.
func (b *Backend) Supported() bool {
	api, err := b.resolve()
	if err != nil {
		return false
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		b.log().Debug("native: instance creation failed", "error", err)
		return false
	}
	defer instance.Destroy()
	return len(instance.EnumerateAdapters(nil)) > 0
}

// CreateFactory creates a HAL instance. The HAL validation layers are not
// toggled per instance, so debug only affects logging.
func (b *Backend) CreateFactory(debug bool) (graphics.Factory, error) {
	api, err := b.resolve()
	if err != nil {
		return nil, err
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	if debug {
		b.log().Debug("native: validation requested; HAL instance flags left at default")
	}
	return &Factory{backend: b, instance: instance}, nil
}

// Factory enumerates HAL adapters.
type Factory struct {
	backend  *Backend
	instance hal.Instance
	released bool
}

// Instance returns the HAL instance.
func (f *Factory) Instance() hal.Instance { return f.instance }

// Adapters returns the HAL adapters in enumeration order.
func (f *Factory) Adapters() ([]graphics.Adapter, error) {
	exposed := f.instance.EnumerateAdapters(nil)
	out := make([]graphics.Adapter, len(exposed))
	for i := range exposed {
		out[i] = &Adapter{
			factory: f,
			exposed: exposed[i],
			desc:    describe(exposed[i].Info.Name, exposed[i].Info.Vendor, exposed[i].Info.DeviceType),
		}
	}
	return out, nil
}

// AdaptersByPreference orders adapters by device type. High performance puts
// discrete GPUs first, low power puts integrated GPUs first.
func (f *Factory) AdaptersByPreference(p graphics.PowerPreference) ([]graphics.Adapter, error) {
	adapters, err := f.Adapters()
	if err != nil {
		return nil, err
	}
	sortByPreference(adapters, p)
	return adapters, nil
}

func sortByPreference(adapters []graphics.Adapter, p graphics.PowerPreference) {
	if p == graphics.PowerPreferenceDefault {
		return
	}
	rank := func(a graphics.Adapter) int {
		typ := a.(*Adapter).exposed.Info.DeviceType
		switch {
		case typ == gputypes.DeviceTypeDiscreteGPU && p == graphics.PowerPreferenceHighPerformance,
			typ == gputypes.DeviceTypeIntegratedGPU && p == graphics.PowerPreferenceLowPower:
			return 0
		case typ == gputypes.DeviceTypeDiscreteGPU || typ == gputypes.DeviceTypeIntegratedGPU:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(adapters, func(i, j int) bool { return rank(adapters[i]) < rank(adapters[j]) })
}

// Release destroys the HAL instance.
func (f *Factory) Release() {
	if f.released {
		return
	}
	f.released = true
	f.instance.Destroy()
}

// Adapter is an adapter exposed by the HAL instance.
type Adapter struct {
	factory *Factory
	exposed hal.ExposedAdapter
	desc    graphics.AdapterDescriptor
}

// Descriptor returns the adapter descriptor derived from the HAL info.
func (a *Adapter) Descriptor() (graphics.AdapterDescriptor, error) { return a.desc, nil }

// CreateDevice opens a HAL device with default limits.
func (a *Adapter) CreateDevice(level graphics.FeatureLevel) (graphics.NativeDevice, error) {
	if level > a.factory.backend.maxLevel {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedLevel, level, a.desc.Name)
	}
	limits := gputypes.DefaultLimits()
	open, err := a.exposed.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		return nil, fmt.Errorf("native: open %s: %w", a.desc.Name, err)
	}
	return newDevice(a, level, open.Device, open.Queue, limits), nil
}

// Release is a no-op; adapters are owned by the instance.
func (a *Adapter) Release() {}

// describe converts HAL adapter info into a descriptor. Only CPU adapters
// are reported as software.
func describe(name, vendor string, typ gputypes.DeviceType) graphics.AdapterDescriptor {
	integrated := typ == gputypes.DeviceTypeIntegratedGPU
	return graphics.AdapterDescriptor{
		Name:          name,
		VendorID:      vendorID(vendor, name),
		Software:      typ == gputypes.DeviceTypeCPU,
		UnifiedMemory: integrated,
		CacheCoherent: integrated,
	}
}

var vendorNames = []struct {
	key string
	id  graphics.VendorID
}{
	{"nvidia", graphics.VendorNVIDIA},
	{"amd", graphics.VendorAMD},
	{"advanced micro devices", graphics.VendorAMD},
	{"radeon", graphics.VendorAMD},
	{"intel", graphics.VendorIntel},
	{"qualcomm", graphics.VendorQualcomm},
	{"adreno", graphics.VendorQualcomm},
	{"mali", graphics.VendorARM},
	{"arm", graphics.VendorARM},
	{"microsoft", graphics.VendorMicrosoft},
}

// vendorID maps the HAL vendor string, or failing that the adapter name, to
// a PCI vendor id. Unknown vendors map to 0.
func vendorID(vendor, name string) graphics.VendorID {
	if v := strings.TrimSpace(strings.ToLower(vendor)); strings.HasPrefix(v, "0x") {
		var id uint32
		if _, err := fmt.Sscanf(v, "0x%x", &id); err == nil {
			return graphics.VendorID(id)
		}
	}
	for _, s := range []string{vendor, name} {
		s = strings.ToLower(s)
		for _, v := range vendorNames {
			if strings.Contains(s, v.key) {
				return v.id
			}
		}
	}
	return 0
}
