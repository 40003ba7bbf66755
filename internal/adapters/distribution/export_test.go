package distribution

// NewInstallerWithClient exposes the client-injecting constructor for tests.
var NewInstallerWithClient = newInstallerWithClient

// ExtractTarGz exposes the archive extraction for tests.
var ExtractTarGz = extractTarGz

// HostPlatform exposes the platform triple mapping for tests.
var HostPlatform = hostPlatform

// DistributionURL exposes the archive URL template for tests.
var DistributionURL = distributionURL
