package domain

const (
	// DefaultResolverURL is the version resolution service queried when
	// no override is configured.
	DefaultResolverURL = "https://semver.io/node/resolve"

	// DefaultMirrorURL is the distribution mirror runtime archives are
	// downloaded from.
	DefaultMirrorURL = "https://nodejs.org/dist"

	// DefaultGruntTask is the task invoked when a Gruntfile is detected.
	DefaultGruntTask = "build"
)

// Settings are the tunable knobs of a staging run. They come from
// defaults, an optional stagehand.yaml in the build directory, and
// STAGEHAND_* environment variables, in that order of precedence.
type Settings struct {
	// ResolverURL is the base URL of the version resolution service.
	ResolverURL string

	// MirrorURL is the base URL of the runtime distribution mirror.
	MirrorURL string

	// GruntTask is the task name passed to grunt.
	GruntTask string

	// Platform overrides the distribution platform triple. Empty
	// selects the host platform.
	Platform string
}

// DefaultSettings returns settings with all defaults applied.
func DefaultSettings() *Settings {
	return &Settings{
		ResolverURL: DefaultResolverURL,
		MirrorURL:   DefaultMirrorURL,
		GruntTask:   DefaultGruntTask,
	}
}
