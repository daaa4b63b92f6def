// Package capture acquires microphone audio through miniaudio and exposes
// it as a rolling window of samples for the tuner session.
package capture

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// DeviceOption pairs a capture device with a human-readable name for the
// device selector.
type DeviceOption struct {
	Name string
	Info *malgo.DeviceInfo
}

// Devices enumerates the capture devices known to the context.
func Devices(ctx *malgo.AllocatedContext) ([]DeviceOption, error) {
	list, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, err
	}
	devs := make([]DeviceOption, 0, len(list))
	for i := range list {
		infoCopy := list[i]
		name := infoCopy.Name()
		if name == "" {
			name = "Unknown input"
		}
		devs = append(devs, DeviceOption{Name: name, Info: &infoCopy})
	}
	return devs, nil
}

// FindDevice returns the option with the given name, or nil.
func FindDevice(devs []DeviceOption, name string) *DeviceOption {
	for i := range devs {
		if devs[i].Name == name {
			return &devs[i]
		}
	}
	return nil
}

// Microphone is a live capture stream backed by one miniaudio device. The
// device callback writes into an internal ring; ReadWindow copies the most
// recent samples out of it. The malgo context is owned by the caller and
// outlives the microphone.
type Microphone struct {
	ctx  *malgo.AllocatedContext
	info *malgo.DeviceInfo

	mu     sync.Mutex
	device *malgo.Device
	ring   []float64
	pos    int
	count  int
	level  float64

	sampleRate float64
}

// NewMicrophone prepares a capture stream for the given device. windowSize
// sets how many recent samples the ring retains; it should match the
// session's analysis window.
func NewMicrophone(ctx *malgo.AllocatedContext, info *malgo.DeviceInfo, windowSize int) *Microphone {
	return &Microphone{
		ctx:  ctx,
		info: info,
		ring: make([]float64, windowSize),
	}
}

// Start opens and starts the device. Mono float32 capture at the device's
// preferred rate.
func (m *Microphone) Start() error {
	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = 1
	config.SampleRate = chooseSampleRate(m.info)
	config.Capture.DeviceID = m.info.ID.Pointer()
	config.Alsa.NoMMap = 1
	m.sampleRate = float64(config.SampleRate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(output, input []byte, frameCount uint32) {
			if len(input) == 0 {
				return
			}
			samples := unsafe.Slice((*float32)(unsafe.Pointer(&input[0])), int(frameCount))
			m.push(samples)
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, config, callbacks)
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}
	m.mu.Lock()
	m.device = device
	m.mu.Unlock()
	return nil
}

// push appends one capture chunk to the ring and updates the level meter.
// Runs on the audio backend's thread.
func (m *Microphone) push(samples []float32) {
	var energy float64
	m.mu.Lock()
	for _, s := range samples {
		v := float64(s)
		energy += v * v
		m.ring[m.pos] = v
		m.pos = (m.pos + 1) % len(m.ring)
		if m.count < len(m.ring) {
			m.count++
		}
	}
	m.level = math.Sqrt(energy / float64(len(samples)))
	m.mu.Unlock()
}

// ReadWindow copies the most recent samples into dst, oldest first, and
// returns how many were available.
func (m *Microphone) ReadWindow(dst []float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.count
	if n > len(dst) {
		n = len(dst)
	}
	start := m.pos - n
	if start < 0 {
		start += len(m.ring)
	}
	for i := 0; i < n; i++ {
		dst[i] = m.ring[(start+i)%len(m.ring)]
	}
	return n
}

// SampleRate reports the rate negotiated at Start, in hertz.
func (m *Microphone) SampleRate() float64 {
	return m.sampleRate
}

// Level reports the RMS of the most recent capture chunk.
func (m *Microphone) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Stop releases the device. Safe to call repeatedly or before Start.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	device := m.device
	m.device = nil
	m.mu.Unlock()
	if device == nil {
		return nil
	}
	if err := device.Stop(); err != nil {
		device.Uninit()
		return err
	}
	device.Uninit()
	return nil
}

// chooseSampleRate picks the device's first advertised rate, falling back
// to 48kHz when it does not advertise any.
func chooseSampleRate(info *malgo.DeviceInfo) uint32 {
	for _, f := range info.Formats {
		if f.SampleRate > 0 {
			return f.SampleRate
		}
	}
	return 48000
}
