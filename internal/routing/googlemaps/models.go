package googlemaps

// Wire types for the Google Directions API response. Only the fields
// the estimator needs are mapped.

type directionsResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	Routes       []apiRoute `json:"routes"`
}

type apiRoute struct {
	Summary string   `json:"summary"`
	Legs    []apiLeg `json:"legs"`
}

type apiLeg struct {
	Steps []apiStep `json:"steps"`
}

type apiStep struct {
	Distance       apiValue          `json:"distance"`
	Duration       apiValue          `json:"duration"`
	TravelMode     string            `json:"travel_mode"`
	TransitDetails *apiTransitDetail `json:"transit_details,omitempty"`
}

type apiValue struct {
	Value float64 `json:"value"`
}

type apiTransitDetail struct {
	Line apiTransitLine `json:"line"`
}

type apiTransitLine struct {
	Vehicle apiTransitVehicle `json:"vehicle"`
}

type apiTransitVehicle struct {
	Type string `json:"type"`
}

// Directions API status codes.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusNotFound       = "NOT_FOUND"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusRequestDenied  = "REQUEST_DENIED"
	statusInvalidRequest = "INVALID_REQUEST"
)
