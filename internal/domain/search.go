package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the ISO date format used for departure and return dates.
const DateLayout = "2006-01-02"

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// SearchRequest defines the parameters for a price-matrix search.
type SearchRequest struct {
	// TripName is an optional label for the search (defaulted when saved to history)
	TripName string `json:"tripName"`

	// Origins are the IATA codes of the departure airports, in display order
	Origins []string `json:"origins"`

	// Destinations are the IATA codes of the arrival airports, in display order
	Destinations []string `json:"destinations"`

	// DepartureDate is the outbound date in YYYY-MM-DD format
	DepartureDate string `json:"departureDate"`

	// ReturnDate is the inbound date in YYYY-MM-DD format
	ReturnDate string `json:"returnDate"`
}

// Normalize trims whitespace and uppercases airport codes in place.
func (r *SearchRequest) Normalize() {
	r.TripName = strings.TrimSpace(r.TripName)
	r.Origins = normalizeCodes(r.Origins)
	r.Destinations = normalizeCodes(r.Destinations)
	r.DepartureDate = strings.TrimSpace(r.DepartureDate)
	r.ReturnDate = strings.TrimSpace(r.ReturnDate)
}

func normalizeCodes(codes []string) []string {
	if codes == nil {
		return nil
	}
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return out
}

// Validate checks the request and returns a *ValidationError wrapping ErrInvalidRequest.
// Callers are expected to Normalize first.
func (r SearchRequest) Validate() error {
	codeRules := validation.Each(
		validation.Required.Error("airport code is required"),
		validation.Match(airportCodeRegex).Error("must be a valid 3-letter IATA airport code"),
	)

	err := validation.ValidateStruct(&r,
		validation.Field(&r.Origins, validation.Required.Error("at least one origin is required"), codeRules),
		validation.Field(&r.Destinations, validation.Required.Error("at least one destination is required"), codeRules),
		validation.Field(&r.DepartureDate,
			validation.Required.Error("departureDate is required"),
			validation.Date(DateLayout).Error("departureDate must be a valid YYYY-MM-DD date"),
		),
		validation.Field(&r.ReturnDate,
			validation.Required.Error("returnDate is required"),
			validation.Date(DateLayout).Error("returnDate must be a valid YYYY-MM-DD date"),
		),
	)

	verr := &ValidationError{Fields: map[string]string{}}
	if err != nil {
		var errs validation.Errors
		if !errors.As(err, &errs) {
			return WrapInvalidRequest("%v", err)
		}
		flattenErrors("", errs, verr.Fields)
	}

	if _, ok := verr.Fields["departureDate"]; !ok {
		if _, ok := verr.Fields["returnDate"]; !ok {
			dep, _ := time.Parse(DateLayout, r.DepartureDate)
			ret, _ := time.Parse(DateLayout, r.ReturnDate)
			if ret.Before(dep) {
				verr.Fields["returnDate"] = "returnDate must not be before departureDate"
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// flattenErrors converts nested ozzo errors into "field" / "field[i]" keys.
func flattenErrors(prefix string, errs validation.Errors, out map[string]string) {
	for key, err := range errs {
		name := key
		if prefix != "" {
			name = fmt.Sprintf("%s[%s]", prefix, key)
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenErrors(name, nested, out)
			continue
		}
		out[name] = err.Error()
	}
}

// TotalPairs returns the number of origin/destination lookups a sweep performs.
func (r SearchRequest) TotalPairs() int {
	return len(r.Origins) * len(r.Destinations)
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

// Error returns the failures in a stable, field-sorted order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidRequest.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap makes errors.Is(err, ErrInvalidRequest) hold.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
