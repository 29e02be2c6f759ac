package foursquare

// Raw response shapes for the Foursquare Places API (v3). Optional fields
// stay pointers so the mapper can tell absent from zero.

type SearchResponse struct {
	Results []RawVenue `json:"results"`
}

type RawVenue struct {
	FsqID      string        `json:"fsq_id"`
	Name       string        `json:"name"`
	Geocodes   Geocodes      `json:"geocodes"`
	Location   RawLocation   `json:"location"`
	Categories []RawCategory `json:"categories"`
	Chains     []RawChain    `json:"chains"`
	Distance   *float64      `json:"distance,omitempty"`
	Popularity *float64      `json:"popularity,omitempty"`
	Rating     *float64      `json:"rating,omitempty"`
	Price      *int          `json:"price,omitempty"`
	Hours      *RawHours     `json:"hours,omitempty"`
	Website    string        `json:"website,omitempty"`
	Tel        string        `json:"tel,omitempty"`
	Email      string        `json:"email,omitempty"`
	Verified   bool          `json:"verified"`

	// Stats requires a privileged API tier and may be absent entirely.
	Stats map[string]interface{} `json:"stats,omitempty"`
}

type Geocodes struct {
	Main RawLatLng `json:"main"`
}

type RawLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RawLocation struct {
	Address          string `json:"address,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	Locality         string `json:"locality,omitempty"`
	Region           string `json:"region,omitempty"`
	Country          string `json:"country,omitempty"`
}

type RawCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type RawChain struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RawHours struct {
	Display string `json:"display,omitempty"`
	OpenNow bool   `json:"open_now"`
}

// StatsResponse is the venue stats endpoint payload (premium tier).
type StatsResponse struct {
	VisitsDaily     int   `json:"visits_daily"`
	VisitsWeekly    int   `json:"visits_weekly"`
	PeakHours       []int `json:"peak_hours"`
	BusynessPercent int   `json:"busyness_percent"`
}
