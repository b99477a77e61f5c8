// Copyright 2026 The Vortice Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/Sina-Ebrahimi/vortice/graphics"
)

// Provider shares a native device with gogpu consumers.
//
// It implements gpucontext.DeviceProvider and the HAL provider methods
// HalDevice and HalQueue, which return hal.Device and hal.Queue as any.
// The graphics.Device keeps ownership: Destroy on the shared device is a
// no-op.
type Provider struct {
	device *graphics.Device
	native *Device
	format gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = (*Provider)(nil)

// ProviderFor returns a provider for d. It reports false when d was not
// created by this backend.
func ProviderFor(d *graphics.Device) (*Provider, bool) {
	nd, ok := d.Native().(*Device)
	if !ok {
		return nil, false
	}
	return &Provider{device: d, native: nd, format: gputypes.TextureFormatBGRA8Unorm}, true
}

// Device returns a *SharedDevice.
func (p *Provider) Device() gpucontext.Device { return &SharedDevice{p: p} }

// Queue returns the shared queue handle.
func (p *Provider) Queue() gpucontext.Queue { return sharedQueue{p.native} }

// Adapter returns the shared adapter handle.
func (p *Provider) Adapter() gpucontext.Adapter { return sharedAdapter{p.native.adapter} }

// AdapterInfo reports the adapter name and its type as the HAL exposes it.
func (p *Provider) AdapterInfo() gpucontext.AdapterInfo {
	a := p.native.adapter
	return gpucontext.AdapterInfo{Name: a.desc.Name, Type: adapterType(a.exposed.Info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// SurfaceFormat returns the preferred swap chain format.
func (p *Provider) SurfaceFormat() gputypes.TextureFormat { return p.format }

// HalDevice returns the hal.Device.
func (p *Provider) HalDevice() any { return p.native.device }

// HalQueue returns the hal.Queue.
func (p *Provider) HalQueue() any { return p.native.queue }

// SharedDevice is the device handle Provider.Device returns. Consumers
// assert the gpucontext.Device to *SharedDevice, or to an interface with
// Poll, to synchronize with the owning graphics.Device.
type SharedDevice struct{ p *Provider }

// Poll with wait blocks until the last value signaled on the device fence
// completes or graphics.DefaultWaitTimeout elapses. Poll without wait only
// retires completed signals.
func (s *SharedDevice) Poll(wait bool) {
	if s.p.device.Closed() {
		return
	}
	f := s.p.device.Fence()
	if !wait {
		f.CompletedValue()
		return
	}
	_, _ = f.Native().Wait(f.LastSignaled(), graphics.DefaultWaitTimeout)
}

// Destroy is a no-op; the graphics.Device owns the HAL device.
func (*SharedDevice) Destroy() {}

type sharedQueue struct{ d *Device }

type sharedAdapter struct{ a *Adapter }
