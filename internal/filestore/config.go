package filestore

// Provider identifies the file storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds the settings needed to reach the snapshot store.
type Config struct {
	Provider Provider

	// Endpoint is the host:port of the storage server, e.g. "localhost:9000".
	Endpoint string

	// Static S3-style credentials.
	AccessKey string
	SecretKey string

	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3). Leave empty for MinIO.
	Region string

	// DefaultBucket receives published snapshots unless a command overrides it.
	DefaultBucket string
}

// DefaultConfig returns a local-dev MinIO config without TLS.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}
