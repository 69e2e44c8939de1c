package domain

// StorageStats are the byte counters shown in the storage footer
type StorageStats struct {
	UsedBytes      int64 // Device bytes used by everything except downloads
	AvailableBytes int64
	DownloadBytes  int64
}
