package download

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/mmcdole/hoard/internal/domain"
)

// FileResolver looks up the file behind a download and reports its current size.
type FileResolver struct {
	store  domain.Store
	logger *slog.Logger
}

// NewFileResolver creates a resolver reading file info from the store.
func NewFileResolver(store domain.Store, logger *slog.Logger) *FileResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileResolver{store: store, logger: logger}
}

// Resolve returns the file info for a download id with FileLength taken from
// disk. A download whose file has vanished is forgotten and reported missing.
func (r *FileResolver) Resolve(id int) (domain.FileInfo, bool) {
	key := strconv.Itoa(id)

	var info domain.FileInfo
	if !r.store.Get(domain.CategoryFiles, key, &info) {
		return domain.FileInfo{}, false
	}
	if info.Path == "" {
		return info, true
	}

	st, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("download file missing, forgetting it", "id", id, "path", info.Path)
			if err := r.store.Delete(domain.CategoryFiles, key); err != nil {
				r.logger.Warn("failed to forget missing download", "id", id, "error", err)
			}
			return domain.FileInfo{}, false
		}
		r.logger.Warn("failed to stat download", "id", id, "error", err)
		return info, true
	}

	info.FileLength = st.Size()
	return info, true
}

// Snapshot reads every episode record from the store, deduplicated by id,
// with byte counts attached. Records without resolvable file info are skipped.
func Snapshot(store domain.Store, files *FileResolver) []domain.EpisodeRecord {
	var records []domain.EpisodeRecord
	for _, key := range store.Keys(domain.CategoryEpisodes) {
		var ep domain.EpisodeRecord
		if !store.Get(domain.CategoryEpisodes, key, &ep) {
			continue
		}
		records = append(records, ep)
	}
	records = Dedupe(records)

	out := records[:0]
	for _, ep := range records {
		info, ok := files.Resolve(ep.ID)
		if !ok {
			continue
		}
		ep.TotalBytes = info.TotalBytes
		ep.FileLength = info.FileLength
		out = append(out, ep)
	}
	return out
}

// StoreShowLookup resolves headers from the header category.
func StoreShowLookup(store domain.Store) ShowLookup {
	return func(id int) (domain.ShowRecord, bool) {
		var show domain.ShowRecord
		ok := store.Get(domain.CategoryHeaders, strconv.Itoa(id), &show)
		return show, ok
	}
}

// StoreEpisodeLookup resolves episodes from the episode category.
func StoreEpisodeLookup(store domain.Store) EpisodeLookup {
	return func(key string) (domain.EpisodeRecord, bool) {
		var ep domain.EpisodeRecord
		ok := store.Get(domain.CategoryEpisodes, key, &ep)
		return ep, ok
	}
}
