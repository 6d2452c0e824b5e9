package neural

import "fmt"

// Sensor identifies a sensor neuron. The set is closed; every value has a
// reading defined in systems.ReadSensor.
type Sensor uint8

const (
	SensorLocX Sensor = iota
	SensorLocY
	SensorBorderDistX
	SensorBorderDistY
	SensorBlockedForward
	SensorRandom
	SensorConstant
	SensorPheromone

	numSensors
)

// Action identifies an action neuron. The set is closed; every value has an
// effect (possibly none) defined in systems.PerformAction.
type Action uint8

const (
	ActionMoveForward Action = iota
	ActionMoveX
	ActionMoveY
	ActionEmitPheromone
	ActionSetOscPeriod
	ActionSetResponsiveness

	numActions
)

// IODescriptor describes a brain input or output for UI display.
type IODescriptor struct {
	ID          string  // Unique identifier, also the config name
	Label       string  // Display name
	Description string  // Tooltip/extended description
	Min         float64 // Minimum value
	Max         float64 // Maximum value
	IsCentered  bool    // True for centered bar display (e.g., -1 to +1)
	Group       string  // Logical grouping (e.g., "location", "movement")
}

var sensorDescriptors = [numSensors]IODescriptor{
	SensorLocX:           {ID: "loc_x", Label: "Loc X", Description: "Column position (-1 = west edge, 1 = east edge)", Min: -1, Max: 1, IsCentered: true, Group: "location"},
	SensorLocY:           {ID: "loc_y", Label: "Loc Y", Description: "Row position (-1 = top edge, 1 = bottom edge)", Min: -1, Max: 1, IsCentered: true, Group: "location"},
	SensorBorderDistX:    {ID: "border_dist_x", Label: "Border X", Description: "Distance to nearest west/east border (0 = at border, 1 = center)", Min: 0, Max: 1, Group: "location"},
	SensorBorderDistY:    {ID: "border_dist_y", Label: "Border Y", Description: "Distance to nearest top/bottom border (0 = at border, 1 = center)", Min: 0, Max: 1, Group: "location"},
	SensorBlockedForward: {ID: "blocked_forward", Label: "Blocked", Description: "1 if the tile ahead is occupied or off-grid", Min: 0, Max: 1, Group: "environment"},
	SensorRandom:         {ID: "random", Label: "Random", Description: "Fresh uniform draw every read", Min: -1, Max: 1, IsCentered: true, Group: "internal"},
	SensorConstant:       {ID: "constant", Label: "Bias", Description: "Constant input (always 1.0)", Min: 0, Max: 1, Group: "internal"},
	SensorPheromone:      {ID: "pheromone", Label: "Pheromone", Description: "Pheromone level on own tile / 255", Min: 0, Max: 1, Group: "environment"},
}

var actionDescriptors = [numActions]IODescriptor{
	ActionMoveForward:       {ID: "move_forward", Label: "Forward", Description: "Step one tile in facing direction", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	ActionMoveX:             {ID: "move_x", Label: "Move X", Description: "Step one tile east (+) or west (-)", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	ActionMoveY:             {ID: "move_y", Label: "Move Y", Description: "Step one tile up (+) or down (-)", Min: -1, Max: 1, IsCentered: true, Group: "movement"},
	ActionEmitPheromone:     {ID: "emit_pheromone", Label: "Emit", Description: "Deposit pheromone around own tile", Min: -1, Max: 1, IsCentered: true, Group: "signal"},
	ActionSetOscPeriod:      {ID: "set_osc_period", Label: "Osc Period", Description: "Reserved, no world effect", Min: -1, Max: 1, IsCentered: true, Group: "internal"},
	ActionSetResponsiveness: {ID: "set_responsiveness", Label: "Responsive", Description: "Reserved, no world effect", Min: -1, Max: 1, IsCentered: true, Group: "internal"},
}

// AllSensors returns every sensor in declaration order.
func AllSensors() []Sensor {
	out := make([]Sensor, numSensors)
	for i := range out {
		out[i] = Sensor(i)
	}
	return out
}

// AllActions returns every action in declaration order.
func AllActions() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

func (s Sensor) String() string {
	if s >= numSensors {
		return fmt.Sprintf("sensor(%d)", uint8(s))
	}
	return sensorDescriptors[s].ID
}

func (a Action) String() string {
	if a >= numActions {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionDescriptors[a].ID
}

// Descriptor returns display metadata for the sensor.
func (s Sensor) Descriptor() IODescriptor {
	if s >= numSensors {
		return IODescriptor{ID: s.String()}
	}
	return sensorDescriptors[s]
}

// Descriptor returns display metadata for the action.
func (a Action) Descriptor() IODescriptor {
	if a >= numActions {
		return IODescriptor{ID: a.String()}
	}
	return actionDescriptors[a]
}

// ParseSensor resolves a sensor by its ID.
func ParseSensor(id string) (Sensor, error) {
	for i, desc := range sensorDescriptors {
		if desc.ID == id {
			return Sensor(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sensor %q", id)
}

// ParseAction resolves an action by its ID.
func ParseAction(id string) (Action, error) {
	for i, desc := range actionDescriptors {
		if desc.ID == id {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", id)
}

// ParseSensors resolves a list of sensor IDs, preserving order.
func ParseSensors(ids []string) ([]Sensor, error) {
	out := make([]Sensor, 0, len(ids))
	for _, id := range ids {
		s, err := ParseSensor(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseActions resolves a list of action IDs, preserving order.
func ParseActions(ids []string) ([]Action, error) {
	out := make([]Action, 0, len(ids))
	for _, id := range ids {
		a, err := ParseAction(id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
