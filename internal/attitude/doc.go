// Package attitude converts between the orientation representations used by
// the sampler: Euler angles, 3×3 rotation matrices and unit quaternions.
//
// Conventions:
//   - Roll (φ) rotates about x, pitch (θ) about y, yaw (ψ) about z. Angles are
//     radians, counter-clockwise positive.
//   - Compose is intrinsic: the accumulated matrix is multiplied on the right
//     by each step, R = R₁·R₂·…·Rₙ. Composing [yaw, pitch, roll] gives the
//     aerospace matrix Rz(ψ)·Ry(θ)·Rx(φ), the same rotation as
//     FromEuler(roll, pitch, yaw) = q_yaw ⊗ q_pitch ⊗ q_roll.
//   - Quaternions use the Hamilton product and are stored scalar-first.
//
// Gimbal lock: at pitch = ±π/2 roll and yaw act about the same axis and only
// their sum (or difference) is observable. Quaternion.Euler still succeeds but
// reports roll = 0 and folds the whole rotation into yaw, so callers must not
// expect the original roll/yaw pair back at the singularity.
//
// All functions are pure and safe for concurrent use.
package attitude
