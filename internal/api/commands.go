package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-ems/internal/audit"
	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/device"
	"github.com/nerrad567/gray-logic-ems/internal/gateway"
)

// apiDataKey is the output field holding a single entity attribute.
const apiDataKey = "api_data"

// handleCommand runs /api/<device>[/<command>...] through the gateway.
//
// The JSON body and the query parameters together form the command input;
// body keys win over query parameters of the same name.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := decodeCommandBody(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	mergeQueryParams(body, r.URL.RawQuery)

	claims := claimsFromContext(r.Context())
	req := gateway.Request{
		Source: audit.SourceAPI,
		Path:   r.URL.Path,
		Body:   body,
		Admin:  claims.IsAdmin(),
	}
	if claims != nil {
		req.UserID = claims.Subject
	}

	res := s.service.Execute(r.Context(), req)
	writeCommandResult(w, res)
}

// decodeCommandBody parses an optional JSON object body. Numbers are kept
// as json.Number so integers reach the handlers unchanged.
func decodeCommandBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.Body == nil || r.Body == http.NoBody {
		return body, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errors.New("invalid JSON body")
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// mergeQueryParams adds the query parameters of rawQuery to body without
// overwriting keys already present.
func mergeQueryParams(body map[string]any, rawQuery string) {
	if rawQuery == "" {
		return
	}
	for k, v := range command.ParseURI("?" + rawQuery).Params() {
		key, err := url.QueryUnescape(k)
		if err != nil {
			key = k
		}
		if _, exists := body[key]; exists {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			value = v
		}
		body[key] = value
	}
}

// writeCommandResult writes the dispatcher output with the status mapped
// from its return code.
func writeCommandResult(w http.ResponseWriter, res gateway.Result) {
	status := res.Code.HTTPStatus()
	if data, ok := res.Output[apiDataKey]; ok && len(res.Output) == 1 {
		writeText(w, status, fmt.Sprint(data))
		return
	}

	out := res.Output
	if len(out) == 0 {
		out = command.Output{"message": res.Code.String()}
	}
	writeJSON(w, status, out)
}

// handleListCommands returns the visible commands of a device type.
func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")
	t := device.TypeFromName(name)
	dispatcher := s.service.Dispatcher()
	if !dispatcher.DeviceHasCommands(t) {
		writeNotFound(w, "unknown device: "+name)
		return
	}

	entries := dispatcher.Registry().List(t)
	if entries == nil {
		entries = []command.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"device":   t.String(),
		"commands": entries,
		"count":    len(entries),
	})
}
