package domain

import "strconv"

// TvType is the category tag stored on a header record
type TvType string

const (
	TvTypeMovie       TvType = "movie"
	TvTypeAnimeMovie  TvType = "anime_movie"
	TvTypeTorrent     TvType = "torrent"
	TvTypeLive        TvType = "live"
	TvTypeSeries      TvType = "tv_series"
	TvTypeAnime       TvType = "anime"
	TvTypeCartoon     TvType = "cartoon"
	TvTypeDocumentary TvType = "documentary"
	TvTypeAsianDrama  TvType = "asian_drama"
	TvTypeOthers      TvType = "others"
)

// MediaKind is the closed set of shapes a header can take
type MediaKind int

const (
	KindSeries MediaKind = iota // Multiple episodes under one header
	KindMovie                   // A single downloadable unit
)

// IsMovieType returns true for tags that denote a single-item entry
func (t TvType) IsMovieType() bool {
	switch t {
	case TvTypeMovie, TvTypeAnimeMovie, TvTypeTorrent, TvTypeLive:
		return true
	default:
		return false
	}
}

// Kind maps the raw tag onto the two-case enumeration.
// Unknown tags are treated as series.
func (t TvType) Kind() MediaKind {
	if t.IsMovieType() {
		return KindMovie
	}
	return KindSeries
}

func (k MediaKind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindSeries:
		return "series"
	}
	return "unknown"
}

// EpisodeRecord is a child download (one episode, or the sole unit of a movie).
// TotalBytes and FileLength are filled from the download's file info.
type EpisodeRecord struct {
	ID       int    `json:"id"`
	ParentID int    `json:"parentId"`
	Name     string `json:"name,omitempty"`
	Poster   string `json:"poster,omitempty"`
	Episode  int    `json:"episode"`
	Season   int    `json:"season,omitempty"`
	CachedAt int64  `json:"cacheTime,omitempty"`

	TotalBytes int64 `json:"-"`
	FileLength int64 `json:"-"`
}

// Key returns the store key of the record
func (e EpisodeRecord) Key() string {
	return strconv.Itoa(e.ID)
}

// ShowRecord is a parent download header (a show or a movie)
type ShowRecord struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     TvType `json:"type"`
	URL      string `json:"url,omitempty"`
	APIName  string `json:"apiName,omitempty"`
	Poster   string `json:"poster,omitempty"`
	CachedAt int64  `json:"cacheTime,omitempty"`
}

// Key returns the store key of the record
func (s ShowRecord) Key() string {
	return strconv.Itoa(s.ID)
}

// FileInfo describes the file behind a download
type FileInfo struct {
	ID         int    `json:"id"`
	Path       string `json:"path"`
	TotalBytes int64  `json:"totalBytes"`
	FileLength int64  `json:"fileLength"`
}

// SummaryRecord is one row of the downloads list: every downloaded episode
// of a header rolled into totals.
type SummaryRecord struct {
	TotalBytes    int64
	CurrentBytes  int64
	DownloadCount int
	Show          ShowRecord

	// Representative is only set for movie-type headers and only used for ordering
	Representative *EpisodeRecord
}

// MaxEpisodesPerSeason is the largest episode number SortKey keeps ordered
// within a season. Episode 10000 of season 1 collides with episode 0 of season 2.
const MaxEpisodesPerSeason = 9999

// SortKey orders summaries by season then episode of the representative.
// A missing representative counts as 0 and sorts first.
func (s SummaryRecord) SortKey() int {
	if s.Representative == nil {
		return 0
	}
	return s.Representative.Season*(MaxEpisodesPerSeason+1) + s.Representative.Episode
}

// Equal reports structural equality, comparing representatives by value
func (s SummaryRecord) Equal(o SummaryRecord) bool {
	if s.TotalBytes != o.TotalBytes ||
		s.CurrentBytes != o.CurrentBytes ||
		s.DownloadCount != o.DownloadCount ||
		s.Show != o.Show {
		return false
	}
	if s.Representative == nil || o.Representative == nil {
		return s.Representative == nil && o.Representative == nil
	}
	return *s.Representative == *o.Representative
}

// Progress returns the downloaded fraction in [0, 1]
func (s SummaryRecord) Progress() float64 {
	if s.TotalBytes <= 0 {
		return 0
	}
	p := float64(s.CurrentBytes) / float64(s.TotalBytes)
	if p > 1 {
		return 1
	}
	return p
}
