// Package systems contains the simulation systems: bird kinematics, pipes,
// pixel-mask collision and the arena that ties them together.
package systems

import (
	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// Kinematics advances bird bodies one fixed timestep at a time.
type Kinematics struct {
	cfg config.BirdConfig
}

// NewKinematics creates a kinematics system from bird settings.
func NewKinematics(cfg config.BirdConfig) Kinematics {
	return Kinematics{cfg: cfg}
}

// Spawn returns a fresh bird at the configured spawn point.
func (k Kinematics) Spawn() components.Bird {
	return components.NewBird(k.cfg.SpawnX, k.cfg.SpawnY)
}

// Impulse launches the bird upward and restarts its trajectory.
func (k Kinematics) Impulse(b *components.Bird) {
	b.Vel = k.cfg.ImpulseVelocity
	b.TickCount = 0
	b.LaunchHeight = b.Y
}

// Displacement is the vertical move for a trajectory launched with vel,
// evaluated ticks steps after the launch. Falls are clamped to MaxDrop and
// rises get an extra RiseBoost.
func (k Kinematics) Displacement(vel float64, ticks int) float64 {
	t := float64(ticks)
	d := vel*t + k.cfg.Gravity*t*t

	if d >= k.cfg.MaxDrop {
		d = k.cfg.MaxDrop
	}
	if d < 0 {
		d -= k.cfg.RiseBoost
	}
	return d
}

// Advance moves the bird by one tick and updates its display tilt.
func (k Kinematics) Advance(b *components.Bird) {
	b.TickCount++
	d := k.Displacement(b.Vel, b.TickCount)
	b.Y += d

	if d < 0 || b.Y < b.LaunchHeight+k.cfg.TiltMargin {
		if b.Tilt < k.cfg.MaxRotation {
			b.Tilt = k.cfg.MaxRotation
		}
		return
	}

	if b.Tilt > k.cfg.MinRotation {
		b.Tilt -= k.cfg.RotationSpeed
		if b.Tilt < k.cfg.MinRotation {
			b.Tilt = k.cfg.MinRotation
		}
	}
}
