// Package download turns the flat episode cache into the per-show summaries
// shown in the downloads list, and owns deletion of downloaded files.
package download

import (
	"slices"
	"strconv"

	"github.com/mmcdole/hoard/internal/domain"
)

// ShowLookup resolves a parent header by id.
type ShowLookup func(id int) (domain.ShowRecord, bool)

// EpisodeLookup resolves an episode record by its store key.
type EpisodeLookup func(key string) (domain.EpisodeRecord, bool)

// totals are the running sums for one parent
type totals struct {
	totalBytes   int64
	currentBytes int64
	count        int
}

// Dedupe drops records whose id was already seen. First occurrence wins and
// the order of the survivors is preserved.
func Dedupe(records []domain.EpisodeRecord) []domain.EpisodeRecord {
	seen := make(map[int]struct{}, len(records))
	out := make([]domain.EpisodeRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Aggregate rolls episode records up into one summary per parent.
//
// Records with FileLength <= 1 have not started and contribute nothing.
// Parents that cannot be resolved are dropped. Movie-type parents get a
// representative episode for ordering, looked up under FolderKey(id, id).
// Summaries come out in first-seen parent order; use Order for display order.
func Aggregate(records []domain.EpisodeRecord, lookupShow ShowLookup, lookupEpisode EpisodeLookup) []domain.SummaryRecord {
	records = Dedupe(records)

	byParent := make(map[int]*totals)
	var parents []int
	for _, r := range records {
		if r.FileLength <= 1 {
			continue
		}
		t, ok := byParent[r.ParentID]
		if !ok {
			t = &totals{}
			byParent[r.ParentID] = t
			parents = append(parents, r.ParentID)
		}
		t.totalBytes += r.TotalBytes
		t.currentBytes += r.FileLength
		t.count++
	}

	summaries := make([]domain.SummaryRecord, 0, len(parents))
	for _, parentID := range parents {
		t := byParent[parentID]
		if t.count <= 0 {
			continue
		}
		show, ok := lookupShow(parentID)
		if !ok {
			continue
		}
		if t.totalBytes <= 0 || t.count <= 0 {
			continue
		}

		var representative *domain.EpisodeRecord
		switch show.Type.Kind() {
		case domain.KindMovie:
			if lookupEpisode != nil {
				id := strconv.Itoa(show.ID)
				if ep, ok := lookupEpisode(domain.FolderKey(id, id)); ok {
					representative = &ep
				}
			}
		case domain.KindSeries:
		}

		summaries = append(summaries, domain.SummaryRecord{
			TotalBytes:     t.totalBytes,
			CurrentBytes:   t.currentBytes,
			DownloadCount:  t.count,
			Show:           show,
			Representative: representative,
		})
	}
	return summaries
}

// Order returns the summaries sorted by SummaryRecord.SortKey of their
// representative. Ties keep input order. The input is not modified.
func Order(summaries []domain.SummaryRecord) []domain.SummaryRecord {
	out := slices.Clone(summaries)
	slices.SortStableFunc(out, func(a, b domain.SummaryRecord) int {
		return a.SortKey() - b.SortKey()
	})
	return out
}

// Equal reports whether two ordered results are structurally identical.
func Equal(a, b []domain.SummaryRecord) bool {
	return slices.EqualFunc(a, b, func(x, y domain.SummaryRecord) bool {
		return x.Equal(y)
	})
}

// TotalBytes sums the expected size of every summary.
func TotalBytes(summaries []domain.SummaryRecord) int64 {
	var n int64
	for _, s := range summaries {
		n += s.TotalBytes
	}
	return n
}
