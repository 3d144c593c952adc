package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const MimeJSON = "application/json"

// Redis key prefixes.
const (
	WorksheetCachePrefix = "worksheet:"
	GenerationLockPrefix = "diagnosis-lock:"
)
