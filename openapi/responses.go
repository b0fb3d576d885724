package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// StatusDefault is the RouteResponse status that selects the reserved
// "default" bucket instead of a numeric code.
const StatusDefault = 0

const defaultResponseKey = "default"

// Responses is the container of expected responses of an operation.
// Codes holds numeric HTTP status codes; Default is the catch-all entry
// serialized under the "default" key, which never collides with a code.
//
// See: https://spec.openapis.org/oas/v3.0.0#responses-object
type Responses struct {
	Default *Response
	Codes   map[int]*Response
}

// Len reports the number of entries including the default response.
func (r Responses) Len() int {
	n := len(r.Codes)
	if r.Default != nil {
		n++
	}
	return n
}

// Get returns the response for a status code, or the default response
// for StatusDefault.
func (r Responses) Get(status int) *Response {
	if status == StatusDefault {
		return r.Default
	}
	return r.Codes[status]
}

// set stores a response under a status code. Codes outside 100-599 are
// rejected; the same code twice keeps the last response.
func (r *Responses) set(status int, resp *Response) error {
	if status == StatusDefault {
		r.Default = resp
		return nil
	}
	if !validStatusCode(status) {
		return fmt.Errorf("%w: %d", ErrInvalidStatusCode, status)
	}
	if r.Codes == nil {
		r.Codes = make(map[int]*Response)
	}
	r.Codes[status] = resp
	return nil
}

func validStatusCode(code int) bool {
	return code >= 100 && code <= 599
}

// MarshalJSON encodes the responses as an object keyed by decimal status
// codes plus the optional "default" key.
//
// See: https://spec.openapis.org/oas/v3.0.0#responses-object
func (r Responses) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Response, r.Len())
	for code, resp := range r.Codes {
		out[strconv.Itoa(code)] = resp
	}
	if r.Default != nil {
		out[defaultResponseKey] = r.Default
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a responses object produced by MarshalJSON.
//
// See: https://spec.openapis.org/oas/v3.0.0#responses-object
func (r *Responses) UnmarshalJSON(data []byte) error {
	var raw map[string]*Response
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Responses{}
	for key, resp := range raw {
		if key == defaultResponseKey {
			r.Default = resp
			continue
		}
		code, err := strconv.Atoi(key)
		if err != nil || !validStatusCode(code) {
			return fmt.Errorf("%w: %q", ErrInvalidStatusCode, key)
		}
		if r.Codes == nil {
			r.Codes = make(map[int]*Response)
		}
		r.Codes[code] = resp
	}
	return nil
}
