package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/hoard/internal/diskstat"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/store"
)

type fixture struct {
	store domain.Store
	dir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := store.NewDataStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDataStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return &fixture{store: s, dir: t.TempDir()}
}

func (f *fixture) addShow(t *testing.T, show domain.ShowRecord) {
	t.Helper()
	if err := f.store.Put(domain.CategoryHeaders, show.Key(), show); err != nil {
		t.Fatalf("Put(header) error = %v", err)
	}
}

// addEpisode stores an episode and writes a file of size onDisk for it
func (f *fixture) addEpisode(t *testing.T, ep domain.EpisodeRecord, total, onDisk int64) string {
	t.Helper()

	key := domain.FolderKey(strconv.Itoa(ep.ParentID), ep.Key())
	if err := f.store.Put(domain.CategoryEpisodes, key, ep); err != nil {
		t.Fatalf("Put(episode) error = %v", err)
	}

	path := filepath.Join(f.dir, ep.Key()+".mkv")
	if err := os.WriteFile(path, make([]byte, onDisk), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	info := domain.FileInfo{ID: ep.ID, Path: path, TotalBytes: total}
	if err := f.store.Put(domain.CategoryFiles, ep.Key(), info); err != nil {
		t.Fatalf("Put(file info) error = %v", err)
	}
	return path
}

func fixedStat(stat diskstat.FSStat) diskstat.StatFunc {
	return func(string) (diskstat.FSStat, error) { return stat, nil }
}

func TestViewModel_UpdateList(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addShow(t, domain.ShowRecord{ID: 20, Name: "Heat", Type: domain.TvTypeMovie})
	f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10, Season: 1, Episode: 1}, 100, 40)
	f.addEpisode(t, domain.EpisodeRecord{ID: 12, ParentID: 10, Season: 1, Episode: 2}, 100, 100)
	f.addEpisode(t, domain.EpisodeRecord{ID: 13, ParentID: 10, Season: 1, Episode: 3}, 100, 1)
	f.addEpisode(t, domain.EpisodeRecord{ID: 20, ParentID: 20}, 300, 300)

	stat := diskstat.FSStat{AvailableBytes: 5000, BlockSize: 100, BlockCount: 100}
	vm := NewViewModel(f.store, fixedStat(stat), f.dir, nil)

	visual, published := vm.UpdateList()
	if !published {
		t.Fatal("first UpdateList() published = false, want true")
	}
	if len(visual) != 2 {
		t.Fatalf("len(UpdateList()) = %d, want 2", len(visual))
	}

	byID := map[int]domain.SummaryRecord{}
	for _, s := range visual {
		byID[s.Show.ID] = s
	}
	if s := byID[10]; s.DownloadCount != 2 || s.TotalBytes != 200 || s.CurrentBytes != 140 {
		t.Errorf("series summary = %+v, want 2 downloads 200/140 bytes", s)
	}
	if s := byID[20]; s.Representative == nil || s.Representative.ID != 20 {
		t.Errorf("movie representative = %+v, want episode 20", s.Representative)
	}

	if got, _ := vm.DownloadBytes.Get(); got != 500 {
		t.Errorf("DownloadBytes = %d, want 500", got)
	}
	if got, _ := vm.AvailableBytes.Get(); got != 5000 {
		t.Errorf("AvailableBytes = %d, want 5000", got)
	}
	if got, _ := vm.UsedBytes.Get(); got != 10000-5000-500 {
		t.Errorf("UsedBytes = %d, want %d", got, 10000-5000-500)
	}
	if got, _ := vm.Headers.Get(); !Equal(got, visual) {
		t.Errorf("Headers = %+v, want %+v", got, visual)
	}
}

func TestViewModel_UpdateListSuppressesUnchanged(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10}, 100, 40)

	vm := NewViewModel(f.store, fixedStat(diskstat.FSStat{}), f.dir, nil)
	ch, cancel := vm.Headers.Subscribe(4)
	defer cancel()
	<-ch // initial empty list

	if _, published := vm.UpdateList(); !published {
		t.Fatal("first UpdateList() published = false")
	}
	<-ch

	if _, published := vm.UpdateList(); published {
		t.Error("second UpdateList() published = true, want false")
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected second notification: %+v", v)
	default:
	}
}

func TestViewModel_FirstEmptyListIsPublished(t *testing.T) {
	f := newFixture(t)
	vm := NewViewModel(f.store, fixedStat(diskstat.FSStat{}), f.dir, nil)

	visual, published := vm.UpdateList()
	if !published {
		t.Error("UpdateList() on empty store published = false, want true")
	}
	if len(visual) != 0 {
		t.Errorf("len(UpdateList()) = %d, want 0", len(visual))
	}
}

func TestViewModel_StatFailure(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10}, 100, 40)

	failing := func(string) (diskstat.FSStat, error) {
		return diskstat.FSStat{}, errors.New("device gone")
	}
	vm := NewViewModel(f.store, failing, f.dir, nil)

	visual, _ := vm.UpdateList()
	if len(visual) != 1 {
		t.Fatalf("len(UpdateList()) = %d, want 1", len(visual))
	}
	if got, ok := vm.DownloadBytes.Get(); !ok || got != 0 {
		t.Errorf("DownloadBytes = (%d, %v), want (0, true)", got, ok)
	}
	if headers, _ := vm.Headers.Get(); len(headers) != 1 {
		t.Errorf("Headers = %+v, want one summary", headers)
	}
}

func TestViewModel_UpdateListAsync(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10}, 100, 40)

	vm := NewViewModel(f.store, fixedStat(diskstat.FSStat{}), f.dir, nil)
	visual := <-vm.UpdateListAsync()
	if len(visual) != 1 {
		t.Errorf("len(UpdateListAsync()) = %d, want 1", len(visual))
	}
}

func TestViewModel_Selection(t *testing.T) {
	vm := NewViewModel(newFixture(t).store, fixedStat(diskstat.FSStat{}), "", nil)

	vm.AddSelected(1, "a")
	vm.AddSelected(2, "b")
	vm.AddSelected(3, "c")
	if !vm.IsSelected(2) {
		t.Error("IsSelected(2) = false after AddSelected")
	}

	vm.RemoveSelected(2)
	if vm.IsSelected(2) {
		t.Error("IsSelected(2) = true after RemoveSelected")
	}

	vm.FilterSelected(map[int]struct{}{3: {}})
	sel, _ := vm.Selected.Get()
	if len(sel) != 1 || sel[3] != "c" {
		t.Errorf("Selected after FilterSelected = %v, want map[3:c]", sel)
	}

	vm.SetSelected(map[int]string{7: "x", 8: "y"})
	if sel, _ := vm.Selected.Get(); len(sel) != 2 {
		t.Errorf("Selected after SetSelected = %v", sel)
	}

	vm.ClearSelected()
	if sel, _ := vm.Selected.Get(); len(sel) != 0 {
		t.Errorf("Selected after ClearSelected = %v, want empty", sel)
	}
}

func TestViewModel_SelectionPublishesCopies(t *testing.T) {
	vm := NewViewModel(newFixture(t).store, fixedStat(diskstat.FSStat{}), "", nil)

	vm.AddSelected(1, "a")
	before, _ := vm.Selected.Get()
	vm.AddSelected(2, "b")

	if len(before) != 1 {
		t.Errorf("earlier published selection mutated: %v", before)
	}
}

func TestViewModel_RequestDelete(t *testing.T) {
	vm := NewViewModel(newFixture(t).store, fixedStat(diskstat.FSStat{}), "", nil)

	if _, err := vm.RequestDelete(); !errors.Is(err, domain.ErrNothingSelected) {
		t.Errorf("RequestDelete() error = %v, want ErrNothingSelected", err)
	}

	vm.AddSelected(20, "Heat")
	vm.AddSelected(10, "Severance")

	req, err := vm.RequestDelete()
	if err != nil {
		t.Fatalf("RequestDelete() error = %v", err)
	}
	if len(req.IDs) != 2 || req.IDs[0] != 10 || req.IDs[1] != 20 {
		t.Errorf("IDs = %v, want [10 20]", req.IDs)
	}
	if !strings.Contains(req.Message, "• Severance\n• Heat") {
		t.Errorf("Message = %q, want bulleted names", req.Message)
	}
}

func TestViewModel_ConfirmDelete(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addShow(t, domain.ShowRecord{ID: 20, Name: "Heat", Type: domain.TvTypeMovie})
	p1 := f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10}, 100, 40)
	p2 := f.addEpisode(t, domain.EpisodeRecord{ID: 12, ParentID: 10}, 100, 40)
	f.addEpisode(t, domain.EpisodeRecord{ID: 20, ParentID: 20}, 300, 300)

	vm := NewViewModel(f.store, fixedStat(diskstat.FSStat{}), f.dir, nil)
	vm.UpdateList()
	vm.AddSelected(10, "Severance")

	req, err := vm.RequestDelete()
	if err != nil {
		t.Fatalf("RequestDelete() error = %v", err)
	}
	if err := vm.ConfirmDelete(context.Background(), req); err != nil {
		t.Fatalf("ConfirmDelete() error = %v", err)
	}

	for _, p := range []string{p1, p2} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("file %s still exists", p)
		}
	}

	headers, _ := vm.Headers.Get()
	if len(headers) != 1 || headers[0].Show.ID != 20 {
		t.Errorf("Headers after delete = %+v, want only Heat", headers)
	}
	if vm.IsSelected(10) {
		t.Error("deleted header still selected")
	}

	var show domain.ShowRecord
	if f.store.Get(domain.CategoryHeaders, "10", &show) {
		t.Error("orphaned header still in store")
	}
}

func TestViewModel_RefreshDuringDeleteKeepsFreshList(t *testing.T) {
	f := newFixture(t)
	f.addShow(t, domain.ShowRecord{ID: 10, Name: "Severance", Type: domain.TvTypeSeries})
	f.addShow(t, domain.ShowRecord{ID: 20, Name: "Heat", Type: domain.TvTypeMovie})
	f.addEpisode(t, domain.EpisodeRecord{ID: 11, ParentID: 10}, 100, 40)
	f.addEpisode(t, domain.EpisodeRecord{ID: 20, ParentID: 20}, 300, 300)

	// The first stat call parks a refresh between its snapshot and its publish
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	stat := func(string) (diskstat.FSStat, error) {
		first := false
		once.Do(func() { first = true })
		if first {
			close(entered)
			<-release
		}
		return diskstat.FSStat{}, nil
	}
	vm := NewViewModel(f.store, stat, f.dir, nil)

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		vm.UpdateList()
	}()
	<-entered

	vm.AddSelected(10, "Severance")
	req, err := vm.RequestDelete()
	if err != nil {
		t.Fatalf("RequestDelete() error = %v", err)
	}
	deleteErr := make(chan error, 1)
	go func() {
		deleteErr <- vm.ConfirmDelete(context.Background(), req)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	<-refreshDone
	if err := <-deleteErr; err != nil {
		t.Fatalf("ConfirmDelete() error = %v", err)
	}

	headers, _ := vm.Headers.Get()
	if len(headers) != 1 || headers[0].Show.ID != 20 {
		t.Errorf("Headers = %+v, want only Heat after the delete", headers)
	}
}
