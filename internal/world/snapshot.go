package world

import "github.com/climbfall/ropefall/internal/vecmath"

// RecordType tags a Snapshot's per-body record.
type RecordType string

const (
	RecordPointMass RecordType = "point-mass"
	RecordRope      RecordType = "rope"
)

// BodyRecord is one immutable per-time-point record: either a single
// point mass (anchor, climber, joint, deflection point) or the rope's
// traced polyline, belayer to climber, used for line rendering.
type BodyRecord struct {
	Type RecordType `json:"type"`
	ID   uint64     `json:"id,omitempty"`
	Name string     `json:"name,omitempty"`

	InstantForce   float64 `json:"instant_force"`
	AverageForce   float64 `json:"average_force"`
	ForceAvgWindow float64 `json:"force_avg_window"`

	KineticEnergy   float64 `json:"kinetic_energy"`
	PotentialEnergy float64 `json:"potential_energy"`
	ElasticEnergy   float64 `json:"elastic_energy"`
	TotalEnergy     float64 `json:"total_energy"`

	// Visible state: Position is set for point-mass records, Polyline
	// for the rope record. Exactly one is non-empty.
	Position *vecmath.Vector  `json:"position,omitempty"`
	Polyline []vecmath.Vector `json:"polyline,omitempty"`

	Color     string  `json:"color"`
	Radius    float64 `json:"radius,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`

	MaxSpeed        *float64 `json:"max_speed,omitempty"`
	MaxAverageForce *float64 `json:"max_average_force,omitempty"`
}

// Snapshot is an immutable per-time-point record of the whole world
// state, consumed by the external rendering/storage/plotting
// collaborators.
type Snapshot struct {
	Time    float64      `json:"time"`
	Bodies  []BodyRecord `json:"bodies"`
	Version string       `json:"version"`
}
