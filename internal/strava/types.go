package strava

// RawActivity is one summary activity as returned by GET /athlete/activities.
// Fields the provider may omit are pointers so "absent" survives decoding.
type RawActivity struct {
	ID                 int64    `json:"id"`
	Name               *string  `json:"name"`
	Type               *string  `json:"type"`
	SportType          *string  `json:"sport_type"`
	StartDate          *string  `json:"start_date"`
	StartDateLocal     *string  `json:"start_date_local"`
	Distance           *float64 `json:"distance"`             // meters
	MovingTime         *float64 `json:"moving_time"`          // seconds
	ElapsedTime        *float64 `json:"elapsed_time"`         // seconds
	TotalElevationGain *float64 `json:"total_elevation_gain"` // meters
	AverageHeartrate   *float64 `json:"average_heartrate"`
	SufferScore        *float64 `json:"suffer_score"`
	AverageWatts       *float64 `json:"average_watts"`
}

// Athlete is the authenticated athlete's profile.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// DisplayName returns "First Last", falling back to the username.
func (a Athlete) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	}
	return a.Username
}

// tokenResponse is the body of a successful refresh_token grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// ProgressFunc is called after each page with the page number and the
// cumulative number of activities fetched so far.
type ProgressFunc func(page, total int)

// FetchResult is the outcome of a full paginated fetch. Truncated is set when
// a non-rate-limit failure ended pagination early; Err holds that failure.
type FetchResult struct {
	Records   []RawActivity
	Pages     int
	Truncated bool
	Err       error
}
