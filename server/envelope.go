package server

import (
	"encoding/json"
	"encoding/xml"
	"net/http"

	"msgboard/factory"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Format is the closed set of encodings the API can produce.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
)

// ParseFormat maps a request's format token onto a Format. Only the exact
// token "xml" selects XML; anything else, including an empty or unknown
// token, falls back to JSON and is never an error.
func ParseFormat(token string) Format {
	if token == "xml" {
		return FormatXML
	}
	return FormatJSON
}

// ResponseContent carries exactly one payload variant: a listing, a single
// message, an error reason, or the None marker for operations that return no
// payload. Field names are identical in JSON and XML so the two encodings
// stay structurally equivalent.
type ResponseContent struct {
	Items  []factory.Message `json:"Items,omitempty" xml:"Items>Message,omitempty"`
	Item   *factory.Message  `json:"Item,omitempty" xml:"Item,omitempty"`
	Reason string            `json:"Reason,omitempty" xml:"Reason,omitempty"`
	None   bool              `json:"None,omitempty" xml:"None,omitempty"`
}

// ApiResponse is the envelope common to every structured response.
type ApiResponse struct {
	XMLName xml.Name        `json:"-" xml:"response"`
	Status  string          `json:"status" xml:"status"`
	Result  ResponseContent `json:"result" xml:"result"`
}

func okItems(msgs []factory.Message) ApiResponse {
	return ApiResponse{Status: StatusOK, Result: ResponseContent{Items: msgs}}
}

func okItem(msg factory.Message) ApiResponse {
	return ApiResponse{Status: StatusOK, Result: ResponseContent{Item: &msg}}
}

func okNone() ApiResponse {
	return ApiResponse{Status: StatusOK, Result: ResponseContent{None: true}}
}

func errReason(reason string) ApiResponse {
	return ApiResponse{Status: StatusError, Result: ResponseContent{Reason: reason}}
}

// respond encodes the envelope in the negotiated format. Encoding failures
// after the header has been written can only be logged.
func (s *Server) respond(w http.ResponseWriter, status int, format Format, resp ApiResponse) {
	switch format {
	case FormatXML:
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(status)
		if err := xml.NewEncoder(w).Encode(resp); err != nil {
			s.logger.Error("Error in encoding the response", "error", err)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			s.logger.Error("Error in encoding the response", "error", err)
		}
	}
}
