package googleplaces

// Raw response shapes for the Google Places Nearby Search API. Optional
// fields are pointers, matching the API's omission behavior.

type NearbySearchResponse struct {
	Results       []PlaceResult `json:"results"`
	Status        string        `json:"status"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

type PlaceResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Geometry         Geometry      `json:"geometry"`
	Vicinity         *string       `json:"vicinity,omitempty"`
	FormattedAddress *string       `json:"formatted_address,omitempty"`
	Types            []string      `json:"types,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Website          *string       `json:"website,omitempty"`
	BusinessStatus   *string       `json:"business_status,omitempty"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

// DetailsResponse wraps the Place Details endpoint payload.
type DetailsResponse struct {
	Result PlaceResult `json:"result"`
	Status string      `json:"status"`
}

// Statuses Google reports in the response body instead of HTTP codes.
const (
	STATUS_OK               = "OK"
	STATUS_ZERO_RESULTS     = "ZERO_RESULTS"
	STATUS_NOT_FOUND        = "NOT_FOUND"
	STATUS_OVER_QUERY_LIMIT = "OVER_QUERY_LIMIT"
	STATUS_REQUEST_DENIED   = "REQUEST_DENIED"
	STATUS_INVALID_REQUEST  = "INVALID_REQUEST"
)
