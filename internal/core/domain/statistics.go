package domain

import (
	"encoding/json"
	"math"
)

// SetStatistics is one row of the per-set statistics table.
type SetStatistics struct {
	// ListID identifies the set within its list.
	ListID int

	// Name is the set name.
	Name string

	// Count is the number of member particles.
	Count int

	// Images is the number of member particles with an image.
	Images int

	// ImagedVolume is the sample volume in µL represented by the set's
	// imaged particles, or NaN when the estimate is undefined.
	ImagedVolume float64
}

// HasVolume reports whether the imaged volume is defined.
func (s SetStatistics) HasVolume() bool {
	return !math.IsNaN(s.ImagedVolume)
}

type setStatisticsJSON struct {
	Name         string   `json:"name"`
	Count        int      `json:"count"`
	Images       int      `json:"images"`
	ImagedVolume *float64 `json:"imagedVolume"`
}

// MarshalJSON writes an undefined volume as an explicit null.
// JSON has no NaN literal.
func (s SetStatistics) MarshalJSON() ([]byte, error) {
	out := setStatisticsJSON{Name: s.Name, Count: s.Count, Images: s.Images}
	if s.HasVolume() {
		v := s.ImagedVolume
		out.ImagedVolume = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null volume as NaN.
func (s *SetStatistics) UnmarshalJSON(data []byte) error {
	var in setStatisticsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Name, s.Count, s.Images = in.Name, in.Count, in.Images
	s.ImagedVolume = math.NaN()
	if in.ImagedVolume != nil {
		s.ImagedVolume = *in.ImagedVolume
	}
	return nil
}

// SetInformation is the complete result of one file's set analysis.
type SetInformation struct {
	// Definition is the serialized definition of the resolved sets.
	Definition string `json:"definition"`

	// Statistics holds one row per set, in list order.
	Statistics []SetStatistics `json:"statistics"`

	// Sets is the resolved list, used for per-particle membership.
	Sets *SetsList `json:"-"`

	// Override reports whether the sets came from an override file.
	Override bool `json:"-"`
}
