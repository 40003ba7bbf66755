package distribution

import "runtime"

// hostPlatform returns the distribution platform triple of the host.
func hostPlatform() string {
	goos := runtime.GOOS
	goarch := runtime.GOARCH

	switch {
	case goos == "darwin" && goarch == "amd64":
		return "darwin-x64"
	case goos == "darwin" && goarch == "arm64":
		return "darwin-arm64"
	case goos == "linux" && goarch == "arm64":
		return "linux-arm64"
	case goos == "linux" && goarch == "arm":
		return "linux-armv7l"
	default:
		// Distribution mirrors serve x64 archives for anything else.
		return "linux-x64"
	}
}
