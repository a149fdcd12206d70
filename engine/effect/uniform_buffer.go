package effect

import (
	"encoding/binary"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// uniformBuffers mirrors the CPU-side uniform values of an effect into one GPU uniform buffer
// per var<uniform> block. Blocks whose layout could not be computed are not mirrored.
type uniformBuffers struct {
	queue        *wgpu.Queue
	createBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	buffers      []*wgpu.Buffer // indexed like effectDesc.blocks, nil when not mirrored
}

// newUniformBuffers returns an empty mirror that allocates on device and writes through queue.
func newUniformBuffers(device *wgpu.Device, queue *wgpu.Queue) *uniformBuffers {
	return &uniformBuffers{queue: queue, createBuffer: device.CreateBuffer}
}

// next returns an empty mirror sharing u's device and queue.
func (u *uniformBuffers) next() *uniformBuffers {
	return &uniformBuffers{queue: u.queue, createBuffer: u.createBuffer}
}

// create allocates one buffer per mirrored block.
//
// Parameters:
//   - blocks: the effect's uniform blocks
//
// Returns:
//   - error: error if any buffer allocation fails; already created buffers are released
func (u *uniformBuffers) create(blocks []blockDesc) error {
	u.buffers = make([]*wgpu.Buffer, len(blocks))
	for i, b := range blocks {
		if !b.layoutValid || b.size == 0 {
			continue
		}
		buf, err := u.createBuffer(&wgpu.BufferDescriptor{
			Label:            "Effect Uniform Buffer " + b.name,
			Size:             b.size,
			Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			u.release()
			return fmt.Errorf("create uniform buffer %q: %w", b.name, err)
		}
		u.buffers[i] = buf
	}
	return nil
}

// write uploads one variable's components at its offset. Matrix columns are written at the
// column stride required by the uniform address space.
//
// Parameters:
//   - v: the variable whose value changed
func (u *uniformBuffers) write(v *variable) {
	if v.block >= len(u.buffers) || u.buffers[v.block] == nil {
		return
	}
	typ := v.typ
	stride := typ.columnStride()
	data := make([]byte, typ.size)
	for c := range typ.columns {
		for r := range typ.rows {
			binary.LittleEndian.PutUint32(data[uint64(c)*stride+uint64(4*r):], v.value[c*typ.rows+r])
		}
	}
	u.queue.WriteBuffer(u.buffers[v.block], v.offset, data)
}

// buffer returns the GPU buffer backing block i, or nil.
func (u *uniformBuffers) buffer(i int) *wgpu.Buffer {
	if i < 0 || i >= len(u.buffers) {
		return nil
	}
	return u.buffers[i]
}

// release frees all GPU buffers.
func (u *uniformBuffers) release() {
	for i, b := range u.buffers {
		if b != nil {
			b.Release()
		}
		u.buffers[i] = nil
	}
}
