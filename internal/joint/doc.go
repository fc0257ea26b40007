// Package joint couples pairs of rigid bodies at a shared pivot.
//
// A HingeJoint bends two bodies relative to each other about the pivot's local
// z axis. Each bend distributes the rotation between the bodies according to
// their inertia about the pivot, so neither body slips at the pivot and the
// relative rotation matches the requested angle exactly.
//
// Joints do not own the bodies they connect; a scene typically collects the
// bodies and the joint in a rigid.MultiBody.
package joint
