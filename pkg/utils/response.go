package utils

// ResponseData is the JSON envelope for the ancillary REST endpoints
// (health, version). The webhook endpoints answer with the exact bodies
// the LINE platform integration expects instead.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}
