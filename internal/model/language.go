package model

type Location struct {
	Name string  `json:"name" yaml:"name" validate:"required"`
	Lat  float64 `json:"lat" yaml:"lat" validate:"finite,min=-90,max=90"`
	Lng  float64 `json:"lng" yaml:"lng" validate:"finite,min=-180,max=180"`
}

type Phrase struct {
	Phrase      string `json:"phrase" yaml:"phrase"`
	Translation string `json:"translation" yaml:"translation"`
}

// Language is one catalog entry, e.g. "english" / "Germanic" / active.
type Language struct {
	ID            string     `json:"id" yaml:"id" validate:"required,max=64"`
	Name          string     `json:"name" yaml:"name" validate:"required,max=128"`
	Family        string     `json:"family" yaml:"family" validate:"required,max=128"`
	Status        Status     `json:"status" yaml:"status" validate:"required,status"`
	Speakers      int64      `json:"speakers" yaml:"speakers" validate:"min=0"`
	Age           string     `json:"age,omitempty" yaml:"age,omitempty"`
	Hello         string     `json:"hello,omitempty" yaml:"hello,omitempty"`
	Origin        string     `json:"origin,omitempty" yaml:"origin,omitempty"`
	Tribes        []string   `json:"tribes,omitempty" yaml:"tribes,omitempty"`
	Alphabet      string     `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	CommonPhrases []Phrase   `json:"commonPhrases,omitempty" yaml:"commonPhrases,omitempty"`
	Countries     []string   `json:"countries,omitempty" yaml:"countries,omitempty"`
	Locations     []Location `json:"locations" yaml:"locations" validate:"dive"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
}

// PlaceName returns the display name for the i-th location: the matching
// country when one is listed, the location's own name otherwise.
func (l Language) PlaceName(i int) string {
	if i < len(l.Countries) && l.Countries[i] != "" {
		return l.Countries[i]
	}
	return l.Locations[i].Name
}
