package domain

// Store categories. Each category is a separate namespace of keys.
const (
	CategoryEpisodes = "download_episode_cache"
	CategoryHeaders  = "download_header_cache"
	CategoryFiles    = "download_info"
	CategoryAccounts = "accounts"
)

// Categories lists every category the store must provision.
var Categories = []string{CategoryEpisodes, CategoryHeaders, CategoryFiles, CategoryAccounts}

// Store is the local key-value store (BoltDB + memory).
// Values are opaque to callers and decoded into dest.
type Store interface {
	// Get decodes the value at (category, key) into dest.
	// Returns false when the key is missing or cannot be decoded.
	Get(category, key string, dest any) bool

	// Keys returns every key in a category in byte order.
	Keys(category string) []string

	Put(category, key string, value any) error
	Delete(category, key string) error

	// DeletePrefix removes every key in a category starting with prefix.
	DeletePrefix(category, prefix string) error

	Close() error
}

// FolderKey joins a folder and key into the composite key used for nested records.
func FolderKey(folder, key string) string {
	return folder + "/" + key
}
