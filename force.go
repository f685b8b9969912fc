package cvtsim

// ForceModel computes the longitudinal forces on the vehicle. It has no state.
type ForceModel struct {
	R, G, A, B, C, M float64
	roadLoad         RoadLoadModel
}

// NewForceModel returns the ForceModel of the provided vehicle.
func NewForceModel(p VehicleParameters) ForceModel {
	return ForceModel{p.TireRadius, p.GearRatio, p.AeroQuadratic, p.AeroLinear, p.ResistanceConstant, p.Mass, p.RoadLoad}
}

// Propelling returns the tractive force at the tire for the given engine torque and CVT ratio.
func (f ForceModel) Propelling(torque, ratio float64) float64 {
	return Efficiency * torque * f.G * ratio / f.R
}

// RoadLoad returns the resistance force at speed v.
func (f ForceModel) RoadLoad(v float64) float64 {
	constant := f.C
	if f.roadLoad == RoadLoadRolling {
		constant = f.C * f.M * Gravity
	}
	return f.A*v*v + f.B*v + constant
}

// Compute returns the net force (N) and the acceleration (m/s^2).
func (f ForceModel) Compute(torque, ratio, v float64) (net, acc float64) {
	net = f.Propelling(torque, ratio) - f.RoadLoad(v)
	acc = net / f.M
	return
}
