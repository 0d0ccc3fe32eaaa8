package navigation

import (
	"net/url"
	"strings"
)

// Route is a parsed location hash.
type Route struct {
	// Hash is the raw hash including "#", or "" when none is set.
	Hash string

	// Path always starts with "/".
	Path     string
	Segments []string
	Query    url.Values

	// Pattern and Params are set by a Router that matched the route.
	Pattern string
	Params  map[string]string
}

// Param returns a path parameter filled in by a Router, or "".
func (r Route) Param(name string) string {
	return r.Params[name]
}

// Parse parses a location hash. The leading "#" is optional and an empty
// hash is the root path.
func Parse(hash string) Route {
	raw := hash
	if raw != "" && !strings.HasPrefix(raw, "#") {
		raw = "#" + raw
	}
	if raw == "#" {
		raw = ""
	}

	rest := strings.TrimPrefix(raw, "#")
	path, rawQuery, _ := strings.Cut(rest, "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(seg); err == nil {
			seg = unescaped
		}
		segments = append(segments, seg)
	}

	// A malformed query keeps whatever pairs parsed.
	query, _ := url.ParseQuery(rawQuery)

	return Route{
		Hash:     raw,
		Path:     path,
		Segments: segments,
		Query:    query,
	}
}

// Href builds a hash link for path and an optional query.
func Href(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(query) == 0 {
		return "#" + path
	}
	return "#" + path + "?" + query.Encode()
}
