package command

import "strings"

// URI is a tokenized path-like string: ordered path segments plus query
// parameters.
type URI struct {
	segments []string
	params   map[string]string
}

type uriState uint8

const (
	stateBegin uriState = iota
	stateSegment
	stateParam
	stateValue
)

// ParseURI splits uri into path segments and query parameters.
//
// Segments are separated by '/', and empty segments are dropped, so
// "//one/two////three///" yields [one two three]. A '?' where a segment is
// expected switches to query mode, where "key=value" pairs are separated by
// '&' and a key without '=' gets the empty value. Inside query mode '/' is an
// ordinary character so values can carry entity references.
//
// The empty string yields no segments and no params.
func ParseURI(uri string) URI {
	u := URI{params: make(map[string]string)}

	var (
		s         strings.Builder
		state     = stateBegin
		lastParam string
	)

	for i := 0; i < len(uri); i++ {
		c := uri[i]
		switch {
		case c == '/' && (state == stateBegin || state == stateSegment):
			u.flushSegment(&s)
			state = stateSegment
		case c == '?' && (state == stateBegin || state == stateSegment):
			u.flushSegment(&s)
			state = stateParam
		case c == '=' && (state == stateBegin || state == stateParam):
			lastParam = s.String()
			u.params[lastParam] = ""
			s.Reset()
			state = stateValue
		case c == '&' && state != stateSegment:
			if state == stateValue {
				u.params[lastParam] = s.String()
			} else if s.Len() > 0 {
				lastParam = s.String()
				u.params[lastParam] = ""
			}
			s.Reset()
			state = stateParam
		default:
			s.WriteByte(c)
		}
	}

	if s.Len() > 0 {
		switch state {
		case stateValue:
			u.params[lastParam] = s.String()
		case stateParam:
			u.params[s.String()] = ""
		default:
			u.segments = append(u.segments, s.String())
		}
	}

	return u
}

func (u *URI) flushSegment(s *strings.Builder) {
	if s.Len() > 0 {
		u.segments = append(u.segments, s.String())
		s.Reset()
	}
}

// Segments returns the path segments in order.
func (u URI) Segments() []string {
	return u.segments
}

// Params returns the query parameters.
func (u URI) Params() map[string]string {
	return u.params
}

// Path rebuilds the normalised absolute path, e.g. "/one/two/three".
func (u URI) Path() string {
	return "/" + strings.Join(u.segments, "/")
}
