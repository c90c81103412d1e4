package flickr

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"

	"photogrip/internal/domain"
)

// API methods
const (
	MethodRecent = "flickr.photos.getRecent"
	MethodSearch = "flickr.photos.search"
)

// envelope is the top-level REST response with format=json&nojsoncallback=1
type envelope struct {
	Stat    string      `json:"stat"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Photos  *photosPage `json:"photos,omitempty"`
}

type photosPage struct {
	Page    flexInt      `json:"page"`
	Pages   flexInt      `json:"pages"`
	PerPage flexInt      `json:"perpage"`
	Total   flexInt      `json:"total"`
	Photo   []photoEntry `json:"photo"`
}

type photoEntry struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	Secret string `json:"secret"`
	Server string `json:"server"`
	Farm   int    `json:"farm"`
	Title  string `json:"title"`
}

// flexInt accepts both 42 and "42"; the search method has returned totals as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(err, "invalid number %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// APIError is a failure reported by the API in a stat=fail envelope
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return "flickr api error " + strconv.Itoa(e.Code) + ": " + e.Message
}

func (p *photosPage) toDomain() (domain.PhotoPage, int) {
	page := domain.PhotoPage{
		Page:    int(p.Page),
		Pages:   int(p.Pages),
		PerPage: int(p.PerPage),
		Total:   int(p.Total),
		Photos:  make([]domain.Photo, 0, len(p.Photo)),
	}
	dropped := 0
	for _, e := range p.Photo {
		photo := domain.Photo{
			ID:     e.ID,
			Owner:  e.Owner,
			Secret: e.Secret,
			Server: e.Server,
			Farm:   e.Farm,
			Title:  e.Title,
		}
		if !photo.Valid() {
			dropped++
			continue
		}
		page.Photos = append(page.Photos, photo)
	}
	return page, dropped
}
