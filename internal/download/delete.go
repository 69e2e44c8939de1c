package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/mmcdole/hoard/internal/domain"
)

// Deleter removes downloaded files and the store records that describe them.
type Deleter struct {
	store  domain.Store
	logger *slog.Logger
}

// NewDeleter creates a new Deleter.
func NewDeleter(store domain.Store, logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deleter{store: store, logger: logger}
}

type episodeRef struct {
	keys     []string // Duplicates of one id may live under several keys
	parentID int
}

// DeleteFiles deletes each download id. A failing id is logged and reported
// in the joined error; the remaining ids are still processed. Headers left
// without episodes are removed as well.
func (d *Deleter) DeleteFiles(ctx context.Context, ids []int) error {
	refs := d.indexEpisodes()

	var errs []error
	touched := make(map[int]struct{})
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := d.deleteOne(id, refs); err != nil {
			d.logger.Error("failed to delete download", "id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		if ref, ok := refs[id]; ok {
			touched[ref.parentID] = struct{}{}
			delete(refs, id)
		}
	}

	for parentID := range touched {
		if hasChildren(refs, parentID) {
			continue
		}
		if err := d.store.Delete(domain.CategoryHeaders, strconv.Itoa(parentID)); err != nil {
			d.logger.Error("failed to delete header", "id", parentID, "error", err)
			errs = append(errs, err)
		}
	}

	d.logger.Info("deleted downloads", "count", len(ids), "failed", len(errs))
	return errors.Join(errs...)
}

func (d *Deleter) deleteOne(id int, refs map[int]episodeRef) error {
	key := strconv.Itoa(id)

	var info domain.FileInfo
	if d.store.Get(domain.CategoryFiles, key, &info) && info.Path != "" {
		if err := os.Remove(info.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", info.Path, err)
		}
	}
	if err := d.store.Delete(domain.CategoryFiles, key); err != nil {
		return fmt.Errorf("forget file info %d: %w", id, err)
	}
	for _, k := range refs[id].keys {
		if err := d.store.Delete(domain.CategoryEpisodes, k); err != nil {
			return fmt.Errorf("forget episode %d: %w", id, err)
		}
	}
	return nil
}

// indexEpisodes maps episode id to its store keys and parent
func (d *Deleter) indexEpisodes() map[int]episodeRef {
	refs := make(map[int]episodeRef)
	for _, key := range d.store.Keys(domain.CategoryEpisodes) {
		var ep domain.EpisodeRecord
		if !d.store.Get(domain.CategoryEpisodes, key, &ep) {
			continue
		}
		ref, ok := refs[ep.ID]
		if !ok {
			ref = episodeRef{parentID: ep.ParentID}
		}
		ref.keys = append(ref.keys, key)
		refs[ep.ID] = ref
	}
	return refs
}

func hasChildren(refs map[int]episodeRef, parentID int) bool {
	for _, ref := range refs {
		if ref.parentID == parentID {
			return true
		}
	}
	return false
}

// DeleteShows deletes every download belonging to the given headers.
func (d *Deleter) DeleteShows(ctx context.Context, parentIDs []int) error {
	wanted := make(map[int]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}

	var ids []int
	for id, ref := range d.indexEpisodes() {
		if _, ok := wanted[ref.parentID]; ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return d.DeleteFiles(ctx, ids)
}
