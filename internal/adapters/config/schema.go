package config

// settingsFile is the YAML schema of the optional stagehand.yaml kept
// in the build directory. All fields are optional; absent fields keep
// their defaults.
type settingsFile struct {
	ResolverURL string `yaml:"resolver_url"`
	MirrorURL   string `yaml:"mirror_url"`
	GruntTask   string `yaml:"grunt_task"`
	Platform    string `yaml:"platform"`
}
