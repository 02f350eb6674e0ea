package command

import (
	"net/http"
	"strconv"
)

// ReturnCode is the outcome of a command dispatch.
type ReturnCode uint8

// Return codes. The numeric values are part of the MQTT response payload.
const (
	Fail       ReturnCode = 0
	OK         ReturnCode = 1
	NotFound   ReturnCode = 2
	Error      ReturnCode = 3
	NotAllowed ReturnCode = 4
	Invalid    ReturnCode = 5
)

// String returns a short human readable form. Unknown codes render as their
// decimal value.
func (rc ReturnCode) String() string {
	switch rc {
	case Fail:
		return "Failed"
	case OK:
		return "OK"
	case NotFound:
		return "Not Found"
	case Error:
		return "Error"
	case NotAllowed:
		return "Not Authorized"
	case Invalid:
		return "Invalid"
	default:
		return strconv.Itoa(int(rc))
	}
}

// HTTPStatus maps the return code to the status used by the web API.
func (rc ReturnCode) HTTPStatus() int {
	switch rc {
	case OK:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	case NotAllowed:
		return http.StatusUnauthorized
	case Fail:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Output is the structured result container filled by handlers and by the
// dispatcher's error messages. It is serialised as a JSON object.
type Output = map[string]any

// message replaces the contents of out with msg and returns rc.
func message(rc ReturnCode, msg string, out Output) ReturnCode {
	clear(out)
	out["message"] = msg
	return rc
}
