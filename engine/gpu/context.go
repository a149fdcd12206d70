// Package gpu opens the WebGPU device used to mirror effect uniform blocks.
package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoQueue is returned when the device does not expose a command queue.
var ErrNoQueue = errors.New("gpu: device returned no queue")

// Context owns a WebGPU instance, adapter, device and queue.
type Context interface {
	// Device returns the logical device, or nil after Release.
	Device() *wgpu.Device

	// Queue returns the device queue, or nil after Release.
	Queue() *wgpu.Queue

	// Release frees the GPU objects in reverse creation order. Safe to call more than once.
	Release()
}

type gpuContext struct {
	mu sync.Mutex

	label                string
	forceFallbackAdapter bool
	logger               *slog.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var _ Context = &gpuContext{}

// NewContext requests an adapter and device. When surfaceDescriptor is non-nil the adapter must be
// compatible with the surface it describes; otherwise any adapter is accepted.
//
// Parameters:
//   - surfaceDescriptor: optional surface description, usually window.Window.SurfaceDescriptor()
//   - options: functional options for the context
//
// Returns:
//   - Context: the opened context
//   - error: error if no adapter or device could be obtained
func NewContext(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...ContextBuilderOption) (Context, error) {
	c := &gpuContext{
		label:  "Effect Device",
		logger: common.Logger(),
	}
	for _, opt := range options {
		opt(c)
	}

	c.instance = wgpu.CreateInstance(nil)
	if surfaceDescriptor != nil {
		c.surface = c.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	c.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: c.label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	c.device = d

	c.queue = d.GetQueue()
	if c.queue == nil {
		c.Release()
		return nil, ErrNoQueue
	}

	c.logger.Info("gpu: device ready", "label", c.label, "fallback", c.forceFallbackAdapter, "surface", c.surface != nil)
	return c, nil
}

func (c *gpuContext) Device() *wgpu.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

func (c *gpuContext) Queue() *wgpu.Queue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue
}

func (c *gpuContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
