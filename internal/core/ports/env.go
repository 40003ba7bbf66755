package ports

// EnvLoader reads external configuration variables from an environment
// directory: one file per variable, file name is the key, file contents
// are the value.
//
//go:generate mockgen -source=env.go -destination=mocks/mock_env.go -package=mocks
type EnvLoader interface {
	// Load reads all variables from envDir. Keys on the deny list are
	// dropped. A missing directory yields an empty map, not an error.
	Load(envDir string) (map[string]string, error)
}
