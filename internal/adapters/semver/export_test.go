package semver

// NewResolverWithClient exposes the client-injecting constructor for tests.
var NewResolverWithClient = newResolverWithClient

// MemoPath exposes the memo file layout for tests.
var MemoPath = memoPath
