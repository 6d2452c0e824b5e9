package neural

import (
	"image/color"
	"math/rand"
)

// WeightScale maps a gene's int16 weight onto the network weight range.
// A raw weight of WeightScale decodes to 1.0.
const WeightScale = 10_000.0

// GeneBits is the width of one encoded gene.
const GeneBits = 32

// Bit layout of an encoded gene.
const (
	weightShift = 0
	toShift     = 16
	fromShift   = 24
)

// Gene is one connection descriptor. From and To are read modulo the neuron
// pool sizes at decode time, so any value is a valid reference.
type Gene struct {
	From   uint8 // sensors first, then hidden neurons
	To     uint8 // hidden neurons first, then action neurons
	Weight int16
}

// Bits packs the gene into its 32-bit encoding.
func (g Gene) Bits() uint32 {
	return uint32(g.From)<<fromShift | uint32(g.To)<<toShift | uint32(uint16(g.Weight))<<weightShift
}

// GeneFromBits unpacks a 32-bit encoding.
func GeneFromBits(b uint32) Gene {
	return Gene{
		From:   uint8(b >> fromShift),
		To:     uint8(b >> toShift),
		Weight: int16(uint16(b >> weightShift)),
	}
}

// FlipBit returns g with one bit of its encoding inverted.
// bit is taken modulo GeneBits.
func FlipBit(g Gene, bit int) Gene {
	bit %= GeneBits
	if bit < 0 {
		bit += GeneBits
	}
	return GeneFromBits(g.Bits() ^ (1 << uint(bit)))
}

// Genome is a fixed-length ordered gene sequence.
type Genome []Gene

// Clone returns an independent copy of the genome.
func (g Genome) Clone() Genome {
	if g == nil {
		return nil
	}
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Equal reports whether two genomes hold the same genes in the same order.
func (g Genome) Equal(other Genome) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// GenomeFunc produces the initial genome for one individual.
type GenomeFunc func(rng *rand.Rand, length int) Genome

// RandomGenome draws every gene field uniformly over its full range.
func RandomGenome(rng *rand.Rand, length int) Genome {
	out := make(Genome, length)
	for i := range out {
		out[i] = GeneFromBits(rng.Uint32())
	}
	return out
}

// FixedGenome returns length identical genes with weight WeightScale.
func FixedGenome(length int, from, to uint8) Genome {
	out := make(Genome, length)
	for i := range out {
		out[i] = Gene{From: from, To: to, Weight: WeightScale}
	}
	return out
}

// FixedGenomeFunc adapts FixedGenome to a GenomeFunc.
func FixedGenomeFunc(from, to uint8) GenomeFunc {
	return func(_ *rand.Rand, length int) Genome {
		return FixedGenome(length, from, to)
	}
}

// MutateGenome flips, for each gene independently with probability rate,
// exactly one uniformly chosen bit. Returns the number of mutated genes.
func MutateGenome(rng *rand.Rand, rate float64, genome Genome) int {
	if rate <= 0 {
		return 0
	}
	mutated := 0
	for i := range genome {
		if rng.Float64() < rate {
			genome[i] = FlipBit(genome[i], rng.Intn(GeneBits))
			mutated++
		}
	}
	return mutated
}

// GenomeToRGB averages the gene fields into a display colour.
// Gene order does not affect the result. Visualization only.
func GenomeToRGB(genome Genome) color.RGBA {
	if len(genome) == 0 {
		return color.RGBA{A: 255}
	}
	var r, g, b float64
	for _, gene := range genome {
		r += float64(gene.From)
		g += float64(gene.To)
		// shift weight into [0, 65535] and scale to a byte
		b += (float64(gene.Weight) + 32768) / 256
	}
	n := float64(len(genome))
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}
