package component

// Transform is an entity's world position plus rotation about the Y axis.
// Pure data; MovementSystem integrates it.
type Transform struct {
	X   float32 `yaml:"x"`
	Y   float32 `yaml:"y"`
	Z   float32 `yaml:"z"`
	Yaw float32 `yaml:"yaw"` // radians
}

// Velocity is linear units/s plus angular rad/s about Y.
type Velocity struct {
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	Z        float32 `yaml:"z"`
	AngularY float32 `yaml:"angular_y"`
}
