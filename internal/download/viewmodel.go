package download

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/hoard/internal/diskstat"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/observe"
)

const deleteMessage = "Are you sure you want to permanently delete the following items?\n\n%s"

// DeleteRequest is what the confirmation dialog shows before a bulk delete.
type DeleteRequest struct {
	IDs     []int // Header ids, ascending
	Names   []string
	Message string
}

// ViewModel holds the observable state of the downloads screen.
// Headers, byte counters and the selection are each published independently.
type ViewModel struct {
	store    domain.Store
	files    *FileResolver
	deleter  *Deleter
	stat     diskstat.StatFunc
	statPath string
	logger   *slog.Logger

	Headers        *observe.Value[[]domain.SummaryRecord]
	UsedBytes      *observe.Value[int64]
	AvailableBytes *observe.Value[int64]
	DownloadBytes  *observe.Value[int64]
	Selected       *observe.Value[map[int]string] // header id -> name

	mu        sync.Mutex // Guards previous/published and selection read-modify-write
	updateMu  sync.Mutex // Serializes UpdateList from snapshot through publish
	previous  []domain.SummaryRecord
	published bool
}

// NewViewModel creates a view model over store. statPath is the directory
// whose filesystem is reported in the storage counters.
func NewViewModel(store domain.Store, stat diskstat.StatFunc, statPath string, logger *slog.Logger) *ViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	if stat == nil {
		stat = diskstat.StatFilesystem
	}
	return &ViewModel{
		store:          store,
		files:          NewFileResolver(store, logger),
		deleter:        NewDeleter(store, logger),
		stat:           stat,
		statPath:       statPath,
		logger:         logger,
		Headers:        observe.NewValueOf([]domain.SummaryRecord{}),
		UsedBytes:      observe.NewValue[int64](),
		AvailableBytes: observe.NewValue[int64](),
		DownloadBytes:  observe.NewValue[int64](),
		Selected:       observe.NewValueOf(map[int]string{}),
	}
}

// === Selection ===

func (vm *ViewModel) selected() map[int]string {
	sel, _ := vm.Selected.Get()
	return maps.Clone(sel)
}

func (vm *ViewModel) AddSelected(id int, name string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	sel := vm.selected()
	if sel == nil {
		sel = make(map[int]string)
	}
	sel[id] = name
	vm.Selected.Publish(sel)
}

func (vm *ViewModel) RemoveSelected(id int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	sel := vm.selected()
	if _, ok := sel[id]; !ok {
		return
	}
	delete(sel, id)
	vm.Selected.Publish(sel)
}

func (vm *ViewModel) SetSelected(selected map[int]string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.Selected.Publish(maps.Clone(selected))
}

// FilterSelected drops selected ids not present in keep.
func (vm *ViewModel) FilterSelected(keep map[int]struct{}) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	sel := vm.selected()
	maps.DeleteFunc(sel, func(id int, _ string) bool {
		_, ok := keep[id]
		return !ok
	})
	vm.Selected.Publish(sel)
}

func (vm *ViewModel) ClearSelected() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.Selected.Publish(map[int]string{})
}

// IsSelected returns true if the header id is in the selection
func (vm *ViewModel) IsSelected(id int) bool {
	sel, _ := vm.Selected.Get()
	_, ok := sel[id]
	return ok
}

// === List ===

// UpdateList rebuilds the summaries from a fresh store snapshot and publishes
// them, unless they equal the last published result. The whole result is
// computed before anything is published, and concurrent calls publish in the
// order they snapshot. Returns the result and whether it was published.
func (vm *ViewModel) UpdateList() ([]domain.SummaryRecord, bool) {
	vm.updateMu.Lock()
	defer vm.updateMu.Unlock()

	records := Snapshot(vm.store, vm.files)
	visual := Order(Aggregate(records, StoreShowLookup(vm.store), StoreEpisodeLookup(vm.store)))

	vm.mu.Lock()
	if vm.published && Equal(visual, vm.previous) {
		vm.mu.Unlock()
		return visual, false
	}
	vm.previous = visual
	vm.published = true
	vm.mu.Unlock()

	vm.updateStorageStats(visual)
	vm.Headers.Publish(visual)
	vm.logger.Debug("published downloads", "count", len(visual))
	return visual, true
}

// UpdateListAsync runs UpdateList on a background goroutine. The channel
// receives the result once and is then closed.
func (vm *ViewModel) UpdateListAsync() <-chan []domain.SummaryRecord {
	ch := make(chan []domain.SummaryRecord, 1)
	go func() {
		defer close(ch)
		visual, _ := vm.UpdateList()
		ch <- visual
	}()
	return ch
}

func (vm *ViewModel) updateStorageStats(visual []domain.SummaryRecord) {
	stat, err := vm.stat(vm.statPath)
	if err != nil {
		vm.DownloadBytes.Publish(0)
		vm.logger.Error("failed to read storage stats", "path", vm.statPath, "error", err)
		return
	}

	usage := diskstat.Usage(stat, TotalBytes(visual))
	vm.UsedBytes.Publish(usage.UsedBytes)
	vm.AvailableBytes.Publish(usage.AvailableBytes)
	vm.DownloadBytes.Publish(usage.DownloadBytes)
}

// === Deletion ===

// RequestDelete builds the confirmation for deleting the current selection.
// Returns domain.ErrNothingSelected when the selection is empty, in which
// case no dialog should be shown.
func (vm *ViewModel) RequestDelete() (DeleteRequest, error) {
	sel, _ := vm.Selected.Get()
	if len(sel) == 0 {
		return DeleteRequest{}, domain.ErrNothingSelected
	}

	ids := slices.Sorted(maps.Keys(sel))
	names := make([]string, len(ids))
	lines := make([]string, len(ids))
	for i, id := range ids {
		names[i] = sel[id]
		lines[i] = "• " + sel[id]
	}

	return DeleteRequest{
		IDs:     ids,
		Names:   names,
		Message: fmt.Sprintf(deleteMessage, strings.Join(lines, "\n")),
	}, nil
}

// ConfirmDelete deletes everything in req, then refreshes the list and drops
// deleted headers from the selection. The list is refreshed even when some
// deletions failed; the joined error is returned.
func (vm *ViewModel) ConfirmDelete(ctx context.Context, req DeleteRequest) error {
	err := vm.deleter.DeleteShows(ctx, req.IDs)

	visual, _ := vm.UpdateList()
	remaining := make(map[int]struct{}, len(visual))
	for _, s := range visual {
		remaining[s.Show.ID] = struct{}{}
	}
	vm.FilterSelected(remaining)

	if err != nil {
		return fmt.Errorf("delete downloads: %w", err)
	}
	return nil
}
