// Package neural decodes genomes into sparse neural circuits and evaluates them.
package neural

import "math"

// Activation is one action neuron's output for one individual and step.
type Activation struct {
	Action Action
	Weight float64 // tanh of the neuron value, in (-1, 1)
	Slot   int     // owning individual's slot index
}

// SensorReader supplies sensor readings for one individual.
type SensorReader interface {
	Read(s Sensor) float64
}

// SensorFunc adapts a function to SensorReader.
type SensorFunc func(s Sensor) float64

// Read implements SensorReader.
func (f SensorFunc) Read(s Sensor) float64 { return f(s) }

// Connection links an input (sensor or hidden neuron) to a neuron.
type Connection struct {
	Input  int // sensor list index or hidden neuron index
	Output int // neuron index
	Weight float64
}

type neuron struct {
	value    float64
	action   Action
	isAction bool
}

// Network is a decoded circuit for one individual.
// Neurons [0, hidden) are hidden; action neurons follow in creation order.
type Network struct {
	sensors       []Sensor
	sensorInputs  []Connection
	hiddenConns   []Connection
	neurons       []neuron
	actionNeurons map[int]int // action list index -> neuron index
}

// NewNetwork returns an empty network. Run on it emits nothing.
func NewNetwork() *Network {
	return &Network{actionNeurons: make(map[int]int)}
}

// Decode builds a network from genome. It never fails: neuron references
// wrap modulo the pool sizes, and genes with nothing to connect are skipped.
func Decode(genome Genome, hidden int, sensors []Sensor, actions []Action) *Network {
	nn := NewNetwork()
	nn.Rebuild(genome, hidden, sensors, actions)
	return nn
}

// Rebuild re-decodes the network in place, reusing its buffers.
func (nn *Network) Rebuild(genome Genome, hidden int, sensors []Sensor, actions []Action) {
	if hidden < 0 {
		hidden = 0
	}
	nn.sensors = sensors
	nn.sensorInputs = nn.sensorInputs[:0]
	nn.hiddenConns = nn.hiddenConns[:0]
	nn.neurons = nn.neurons[:0]
	if nn.actionNeurons == nil {
		nn.actionNeurons = make(map[int]int)
	}
	clear(nn.actionNeurons)

	for i := 0; i < hidden; i++ {
		nn.neurons = append(nn.neurons, neuron{})
	}

	numSensors := len(sensors)
	inputPool := numSensors + hidden
	outputPool := hidden + len(actions)
	if inputPool == 0 || outputPool == 0 {
		return
	}

	for _, gene := range genome {
		input := int(gene.From) % inputPool
		output := nn.outputIndex(int(gene.To)%outputPool, hidden, actions)
		weight := float64(gene.Weight) / WeightScale

		if input < numSensors {
			nn.sensorInputs = append(nn.sensorInputs, Connection{Input: input, Output: output, Weight: weight})
		} else {
			nn.hiddenConns = append(nn.hiddenConns, Connection{Input: input - numSensors, Output: output, Weight: weight})
		}
	}
}

// outputIndex resolves a wrapped target to a neuron index, creating the
// action neuron on first use so repeated genes share it.
func (nn *Network) outputIndex(target, hidden int, actions []Action) int {
	if target < hidden {
		return target
	}
	slot := target - hidden
	if idx, ok := nn.actionNeurons[slot]; ok {
		return idx
	}
	nn.neurons = append(nn.neurons, neuron{action: actions[slot], isAction: true})
	idx := len(nn.neurons) - 1
	nn.actionNeurons[slot] = idx
	return idx
}

// Run evaluates the circuit once and appends one Activation per action
// neuron to dst. Sensor readings are not squashed before the first
// accumulation; hidden sources pass through tanh.
func (nn *Network) Run(reader SensorReader, slot int, dst []Activation) []Activation {
	for i := range nn.neurons {
		nn.neurons[i].value = 0
	}

	for _, c := range nn.sensorInputs {
		reading := reader.Read(nn.sensors[c.Input])
		nn.neurons[c.Output].value += reading * c.Weight
	}

	for _, c := range nn.hiddenConns {
		nn.neurons[c.Output].value += math.Tanh(nn.neurons[c.Input].value) * c.Weight
	}

	for _, n := range nn.neurons {
		if n.isAction {
			dst = append(dst, Activation{Action: n.action, Weight: math.Tanh(n.value), Slot: slot})
		}
	}
	return dst
}

// NeuronCount returns hidden plus action neurons.
func (nn *Network) NeuronCount() int { return len(nn.neurons) }

// SensorConnections returns the decoded sensor -> neuron connections.
func (nn *Network) SensorConnections() []Connection { return nn.sensorInputs }

// HiddenConnections returns the decoded hidden -> neuron connections.
func (nn *Network) HiddenConnections() []Connection { return nn.hiddenConns }

// Actions returns the action of each action neuron in creation order.
func (nn *Network) Actions() []Action {
	var out []Action
	for _, n := range nn.neurons {
		if n.isAction {
			out = append(out, n.action)
		}
	}
	return out
}
