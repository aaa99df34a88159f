package config

const (
	// MaxDataroomNameLength matches the datarooms.name VARCHAR(200) column.
	MaxDataroomNameLength = 200

	// MaxDataroomDescriptionLength matches datarooms.description VARCHAR(500).
	MaxDataroomDescriptionLength = 500

	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for visible file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxNameResolutionAttempts bounds how often a resolve-and-write unit is
	// retried after a unique index rejects the resolved name.
	MaxNameResolutionAttempts = 3

	// MaxNameProbes is the highest "(n)" suffix tried before falling back
	// to a random suffix.
	MaxNameProbes = 1000

	// HashChunkSize is the read size used while checksumming uploads.
	HashChunkSize = 32 * 1024

	// DefaultMaxUploadBytes caps multipart upload bodies (100 MiB).
	DefaultMaxUploadBytes = 100 << 20

	// DefaultBlobDeleteConcurrency bounds parallel blob deletes after a cascade.
	DefaultBlobDeleteConcurrency = 8
)
