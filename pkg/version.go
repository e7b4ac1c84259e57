package dictmatrix

var (
	// Version of the app. It is set by the build flags.
	Version = "v0.1.0"
	// Build timestamp. It is set by the build flags.
	Build = "n/a"
)
