// Package diskstat reports filesystem capacity for the storage footer.
package diskstat

import "github.com/mmcdole/hoard/internal/domain"

// FSStat is the raw capacity of the filesystem holding a path
type FSStat struct {
	AvailableBytes int64
	BlockSize      int64
	BlockCount     int64
}

// TotalBytes returns the filesystem size
func (s FSStat) TotalBytes() int64 {
	return s.BlockSize * s.BlockCount
}

// StatFunc reads filesystem capacity for a path
type StatFunc func(path string) (FSStat, error)

// Usage splits the filesystem into what downloads use, what is free, and
// everything else.
func Usage(stat FSStat, downloaded int64) domain.StorageStats {
	return domain.StorageStats{
		UsedBytes:      stat.TotalBytes() - stat.AvailableBytes - downloaded,
		AvailableBytes: stat.AvailableBytes,
		DownloadBytes:  downloaded,
	}
}
