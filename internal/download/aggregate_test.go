package download

import (
	"testing"

	"github.com/mmcdole/hoard/internal/domain"
)

func showLookup(shows ...domain.ShowRecord) ShowLookup {
	byID := make(map[int]domain.ShowRecord, len(shows))
	for _, s := range shows {
		byID[s.ID] = s
	}
	return func(id int) (domain.ShowRecord, bool) {
		s, ok := byID[id]
		return s, ok
	}
}

func episodeLookup(eps map[string]domain.EpisodeRecord) EpisodeLookup {
	return func(key string) (domain.EpisodeRecord, bool) {
		ep, ok := eps[key]
		return ep, ok
	}
}

func TestDedupe(t *testing.T) {
	in := []domain.EpisodeRecord{
		{ID: 3, Name: "first"},
		{ID: 1},
		{ID: 3, Name: "second"},
		{ID: 2},
		{ID: 1},
	}

	got := Dedupe(in)
	wantIDs := []int{3, 1, 2}
	if len(got) != len(wantIDs) {
		t.Fatalf("len(Dedupe()) = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Dedupe()[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
	if got[0].Name != "first" {
		t.Errorf("Dedupe() kept %q, want first occurrence", got[0].Name)
	}
}

func TestAggregate(t *testing.T) {
	series := domain.ShowRecord{ID: 100, Name: "Severance", Type: domain.TvTypeSeries}
	other := domain.ShowRecord{ID: 200, Name: "Andor", Type: domain.TvTypeSeries}

	tests := []struct {
		name      string
		records   []domain.EpisodeRecord
		shows     []domain.ShowRecord
		wantCount map[int]int
		wantTotal map[int]int64
		wantCur   map[int]int64
	}{
		{
			name: "sums per parent",
			records: []domain.EpisodeRecord{
				{ID: 1, ParentID: 100, TotalBytes: 1000, FileLength: 400},
				{ID: 2, ParentID: 100, TotalBytes: 2000, FileLength: 2000},
				{ID: 3, ParentID: 200, TotalBytes: 500, FileLength: 10},
			},
			shows:     []domain.ShowRecord{series, other},
			wantCount: map[int]int{100: 2, 200: 1},
			wantTotal: map[int]int64{100: 3000, 200: 500},
			wantCur:   map[int]int64{100: 2400, 200: 10},
		},
		{
			name: "not started records contribute nothing",
			records: []domain.EpisodeRecord{
				{ID: 1, ParentID: 100, TotalBytes: 1000, FileLength: 1},
				{ID: 2, ParentID: 100, TotalBytes: 2000, FileLength: 0},
				{ID: 3, ParentID: 100, TotalBytes: 700, FileLength: 2},
				{ID: 4, ParentID: 200, TotalBytes: 900, FileLength: 1},
			},
			shows:     []domain.ShowRecord{series, other},
			wantCount: map[int]int{100: 1},
			wantTotal: map[int]int64{100: 700},
			wantCur:   map[int]int64{100: 2},
		},
		{
			name: "duplicates counted once",
			records: []domain.EpisodeRecord{
				{ID: 1, ParentID: 100, TotalBytes: 1000, FileLength: 400},
				{ID: 1, ParentID: 100, TotalBytes: 9999, FileLength: 9999},
			},
			shows:     []domain.ShowRecord{series},
			wantCount: map[int]int{100: 1},
			wantTotal: map[int]int64{100: 1000},
			wantCur:   map[int]int64{100: 400},
		},
		{
			name: "unresolved parent dropped",
			records: []domain.EpisodeRecord{
				{ID: 1, ParentID: 100, TotalBytes: 1000, FileLength: 400},
				{ID: 2, ParentID: 300, TotalBytes: 1000, FileLength: 400},
			},
			shows:     []domain.ShowRecord{series},
			wantCount: map[int]int{100: 1},
			wantTotal: map[int]int64{100: 1000},
			wantCur:   map[int]int64{100: 400},
		},
		{
			name: "zero total bytes dropped",
			records: []domain.EpisodeRecord{
				{ID: 1, ParentID: 100, TotalBytes: 0, FileLength: 400},
			},
			shows:     []domain.ShowRecord{series},
			wantCount: map[int]int{},
		},
		{
			name:      "empty input",
			shows:     []domain.ShowRecord{series},
			wantCount: map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.records, showLookup(tt.shows...), nil)

			if len(got) != len(tt.wantCount) {
				t.Fatalf("len(Aggregate()) = %d, want %d: %+v", len(got), len(tt.wantCount), got)
			}
			for _, s := range got {
				id := s.Show.ID
				if s.DownloadCount != tt.wantCount[id] {
					t.Errorf("show %d DownloadCount = %d, want %d", id, s.DownloadCount, tt.wantCount[id])
				}
				if s.TotalBytes != tt.wantTotal[id] {
					t.Errorf("show %d TotalBytes = %d, want %d", id, s.TotalBytes, tt.wantTotal[id])
				}
				if s.CurrentBytes != tt.wantCur[id] {
					t.Errorf("show %d CurrentBytes = %d, want %d", id, s.CurrentBytes, tt.wantCur[id])
				}
				if s.DownloadCount <= 0 || s.TotalBytes <= 0 {
					t.Errorf("show %d emitted with count %d, total %d", id, s.DownloadCount, s.TotalBytes)
				}
			}
		})
	}
}

func TestAggregate_MovieRepresentative(t *testing.T) {
	movie := domain.ShowRecord{ID: 42, Name: "Heat", Type: domain.TvTypeMovie}
	orphanMovie := domain.ShowRecord{ID: 43, Name: "Ronin", Type: domain.TvTypeAnimeMovie}
	series := domain.ShowRecord{ID: 44, Name: "Dark", Type: domain.TvTypeSeries}

	records := []domain.EpisodeRecord{
		{ID: 42, ParentID: 42, TotalBytes: 100, FileLength: 50},
		{ID: 43, ParentID: 43, TotalBytes: 100, FileLength: 50},
		{ID: 1, ParentID: 44, TotalBytes: 100, FileLength: 50},
	}
	eps := map[string]domain.EpisodeRecord{
		domain.FolderKey("42", "42"): {ID: 42, ParentID: 42, Episode: 1, Season: 0},
		domain.FolderKey("44", "44"): {ID: 44, ParentID: 44, Episode: 9, Season: 9},
	}

	got := Aggregate(records, showLookup(movie, orphanMovie, series), episodeLookup(eps))
	if len(got) != 3 {
		t.Fatalf("len(Aggregate()) = %d, want 3", len(got))
	}

	byID := make(map[int]domain.SummaryRecord)
	for _, s := range got {
		byID[s.Show.ID] = s
	}
	if rep := byID[42].Representative; rep == nil || rep.ID != 42 {
		t.Errorf("movie representative = %+v, want episode 42", rep)
	}
	if rep := byID[43].Representative; rep != nil {
		t.Errorf("missing representative = %+v, want nil", rep)
	}
	if rep := byID[44].Representative; rep != nil {
		t.Errorf("series representative = %+v, want nil", rep)
	}
}

func TestOrder(t *testing.T) {
	withRep := func(name string, season, episode int) domain.SummaryRecord {
		return domain.SummaryRecord{
			Show:           domain.ShowRecord{Name: name},
			Representative: &domain.EpisodeRecord{Season: season, Episode: episode},
		}
	}
	noRep := func(name string) domain.SummaryRecord {
		return domain.SummaryRecord{Show: domain.ShowRecord{Name: name}}
	}

	in := []domain.SummaryRecord{
		withRep("s1e2", 1, 2),
		withRep("s0e5", 0, 5),
		noRep("none-a"),
		withRep("s2e0", 2, 0),
		withRep("s1e9999", 1, domain.MaxEpisodesPerSeason),
		noRep("none-b"),
	}

	got := Order(in)
	want := []string{"none-a", "none-b", "s0e5", "s1e2", "s1e9999", "s2e0"}
	for i, name := range want {
		if got[i].Show.Name != name {
			t.Errorf("Order()[%d] = %s, want %s", i, got[i].Show.Name, name)
		}
	}
	if in[0].Show.Name != "s1e2" {
		t.Error("Order() modified its input")
	}
}

func TestOrder_EpisodeOverflowCollides(t *testing.T) {
	// Episode numbers past domain.MaxEpisodesPerSeason bleed into the next season
	a := domain.SummaryRecord{Representative: &domain.EpisodeRecord{Season: 1, Episode: domain.MaxEpisodesPerSeason + 1}}
	b := domain.SummaryRecord{Representative: &domain.EpisodeRecord{Season: 2, Episode: 0}}
	if a.SortKey() != b.SortKey() {
		t.Errorf("SortKey() = %d and %d, want equal", a.SortKey(), b.SortKey())
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	show := domain.ShowRecord{ID: 1, Name: "Heat", Type: domain.TvTypeMovie}
	records := []domain.EpisodeRecord{{ID: 1, ParentID: 1, TotalBytes: 10, FileLength: 5}}
	eps := episodeLookup(map[string]domain.EpisodeRecord{"1/1": {ID: 1, ParentID: 1}})

	first := Order(Aggregate(records, showLookup(show), eps))
	second := Order(Aggregate(records, showLookup(show), eps))
	if !Equal(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}

	records[0].FileLength = 6
	third := Order(Aggregate(records, showLookup(show), eps))
	if Equal(first, third) {
		t.Error("Equal() = true after byte count changed, want false")
	}
}
