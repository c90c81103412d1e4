package domain

import "fmt"

// Photo represents a single photo record returned by the photo API
type Photo struct {
	ID     string
	Owner  string
	Secret string
	Server string
	Farm   int
	Title  string
}

// Valid reports whether the photo carries everything needed to build its image URL
func (p Photo) Valid() bool {
	return p.ID != "" && p.Server != "" && p.Secret != ""
}

// DisplayTitle returns the title shown to the user
func (p Photo) DisplayTitle() string {
	if p.Title == "" {
		return DefaultPhotoTitle
	}
	return p.Title
}

// DefaultPhotoTitle is shown for photos without a title
const DefaultPhotoTitle = "My Image"

// PhotoPage is one page of photos as reported by the API
type PhotoPage struct {
	Photos  []Photo
	Page    int
	Pages   int
	PerPage int
	Total   int
}

// Status is the coarse state of a search session
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusExhausted
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusExhausted:
		return "exhausted"
	case StatusErrored:
		return "errored"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Snapshot is a read-only copy of a search session's state
type Snapshot struct {
	Query      string
	Page       int
	Results    []Photo
	Status     Status
	Loading    bool
	Exhausted  bool
	Errored    bool
	Err        error
	Generation uint64
}

// EmptyResult reports whether a search finished without any photos
func (s Snapshot) EmptyResult() bool {
	return s.Query != "" && s.Exhausted && len(s.Results) == 0
}

// LastPhoto returns the last photo of the result list
func (s Snapshot) LastPhoto() (Photo, bool) {
	if len(s.Results) == 0 {
		return Photo{}, false
	}
	return s.Results[len(s.Results)-1], true
}
