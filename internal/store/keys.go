package store

const (
	// KeyData holds the cached dashboard document.
	KeyData = "startpage:data"
	// KeyStorageConfig holds the remote backend configuration.
	KeyStorageConfig = "startpage:storage-config"
	// KeyLegacyGitHubConfig is the GitHub-only configuration written by
	// early versions. It is migrated on first read and then deleted.
	KeyLegacyGitHubConfig = "startpage:github-config"
)
