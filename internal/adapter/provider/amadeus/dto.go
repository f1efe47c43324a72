package amadeus

// tokenResponse is the body of POST /v1/security/oauth2/token.
type tokenResponse struct {
	Type        string `json:"type"`
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	State       string `json:"state"`
}

// errorResponse is the error envelope returned by the shopping APIs.
type errorResponse struct {
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// oauthError is the error body of the token endpoint.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// flightOffersResponse is the body of GET /v2/shopping/flight-offers.
type flightOffersResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	Itineraries []itinerary `json:"itineraries"`
	Price       offerPrice  `json:"price"`
}

type itinerary struct {
	// Duration is ISO-8601, e.g. "PT5H30M"
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	CarrierCode string         `json:"carrierCode"`
	Number      string         `json:"number"`
	Departure   segmentAirport `json:"departure"`
	Arrival     segmentAirport `json:"arrival"`
}

type segmentAirport struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type offerPrice struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}
