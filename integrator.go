package nbody

// Integrate advances bodies by one tick.
//
// The order is fixed: every body first records its trail, then moves by its current velocity,
// then accelerates toward the positions captured before anything moved. Forces are exact sums
// over that snapshot. Each body only writes itself, so the loops can be split by body.
func Integrate(bodies []Body, dt float64, p Params) {
	old := TakeSnapshot(bodies)

	for i := range bodies {
		bodies[i].RecordTrail(p.TrailThreshold)
	}

	for i := range bodies {
		bodies[i].Position = bodies[i].Position.Add(bodies[i].Velocity)
	}

	for i := range bodies {
		bodies[i].Velocity = bodies[i].Velocity.Add(old.ExactForce(bodies[i], dt, p.Gravity))
	}
}
