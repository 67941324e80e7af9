package models

// Credentials identify the authenticated caller of a request.
type Credentials struct {
	CallerId string
}
