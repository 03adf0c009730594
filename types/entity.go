package types

// Entity identifies a body in the physics world.
type Entity int32

// InvalidEntity is returned by lookups that do not resolve to a body.
const InvalidEntity Entity = -1
