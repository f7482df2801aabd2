package generators

import (
	"math"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// Interference selects how overlapping wave packets combine.
type Interference int

const (
	// InterfereMostExtreme keeps whichever value lies farthest from 0.5.
	InterfereMostExtreme Interference = iota
	// InterfereLeastExtreme keeps whichever value lies closest to 0.5.
	InterfereLeastExtreme
	InterfereMax
	InterfereMin
	InterfereAverage
)

func randomInterference(rng *rand.Rand) Interference {
	switch rng.Intn(5) {
	case 0:
		return InterfereMostExtreme
	case 1:
		return InterfereLeastExtreme
	case 2:
		return InterfereMax
	case 3:
		return InterfereMin
	default:
		return InterfereAverage
	}
}

const maxWavePackets = 3

// AccelWave is a secondary wave that shifts the phase of its parent wave by
// the transverse coordinate, bending straight wavefronts into curls.
type AccelWave struct {
	Scale   float64    `json:"scale"`
	Amp     float64    `json:"amp"`
	Pack    PackMethod `json:"pack"`
	Enabled bool       `json:"enabled"`
}

func randomAccelWave(rng *rand.Rand) AccelWave {
	return AccelWave{
		Scale:   sampler.UniformIn(rng, 2, 30),
		Amp:     sampler.UniformIn(rng, 0, 0.1),
		Pack:    RandomPackMethod(rng),
		Enabled: sampler.Maybe(rng),
	}
}

// Wave is a curve on a line, with its own scale and packing.
type Wave struct {
	Scale float64    `json:"scale"`
	Pack  PackMethod `json:"pack"`
	Accel AccelWave  `json:"accel"`
}

func randomWave(rng *rand.Rand) Wave {
	w := Wave{
		Pack:  RandomPackMethod(rng),
		Scale: sampler.UniformIn(rng, 2, 30),
	}
	// Same period compensation as the coswave scale.
	if w.Pack == ScaleToFit {
		w.Scale *= 2
	}
	w.Accel = randomAccelWave(rng)
	return w
}

// WavePacket anchors a wave to an origin and an angle. The wave is
// evaluated along the line through that origin.
type WavePacket struct {
	Origin types.Point `json:"origin"`
	Angle  float64     `json:"angle"`
	Wave   Wave        `json:"wave"`
}

func randomWavePacket(rng *rand.Rand) WavePacket {
	return WavePacket{
		Origin: randomPoint(rng),
		Angle:  sampler.UniformIn(rng, 0, math.Pi),
		Wave:   randomWave(rng),
	}
}

// value rotates the point into the packet's frame and splits it into a
// distance along the wave and a transverse offset across it.
func (w *WavePacket) value(pt types.Point) float64 {
	x := pt.X - w.Origin.X
	y := pt.Y - w.Origin.Y
	hypotenuse := math.Hypot(x, y)
	hypangle := math.Atan2(y, x) + w.Angle
	transverse := math.Cos(hypangle) * hypotenuse
	distance := math.Sin(hypangle) * hypotenuse
	if w.Wave.Accel.Enabled {
		distance += PackedCos(transverse, w.Wave.Accel.Scale, w.Wave.Accel.Pack) * w.Wave.Accel.Amp
	}
	return PackedCos(distance, w.Wave.Scale, w.Wave.Pack)
}

// FlatwaveParams holds a group of wave packets and the way to interfere
// them with each other.
type FlatwaveParams struct {
	Interference Interference `json:"interference"`
	Packets      []WavePacket `json:"packets"`
}

// RandomFlatwave samples two to four wave packets and an interference
// policy.
func RandomFlatwave(rng *rand.Rand) *FlatwaveParams {
	p := &FlatwaveParams{Interference: randomInterference(rng)}
	count := rng.Intn(maxWavePackets) + 2
	p.Packets = make([]WavePacket, count)
	for i := range p.Packets {
		p.Packets[i] = randomWavePacket(rng)
	}
	return p
}

func (p *FlatwaveParams) Kind() Kind { return Flatwave }

// At combines every packet's value under the interference policy. The
// accumulator starts at the policy's neutral value.
func (p *FlatwaveParams) At(pt types.Point) float64 {
	var out float64
	switch p.Interference {
	case InterfereMin:
		out = 1
	case InterfereMostExtreme:
		out = 0.5
	}
	for i := range p.Packets {
		layer := p.Packets[i].value(pt)
		if len(p.Packets) == 1 {
			out = layer
			continue
		}
		switch p.Interference {
		case InterfereMostExtreme:
			if math.Abs(layer-0.5) > math.Abs(out-0.5) {
				out = layer
			}
		case InterfereLeastExtreme:
			if math.Abs(layer-0.5) < math.Abs(out-0.5) {
				out = layer
			}
		case InterfereMax:
			out = math.Max(layer, out)
		case InterfereMin:
			out = math.Min(layer, out)
		case InterfereAverage:
			out += layer
		}
	}
	if p.Interference == InterfereAverage {
		out /= float64(len(p.Packets))
	}
	return out
}
