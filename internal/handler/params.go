package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
)

const freshParam = "fresh"

// Parameters sent upstream as integers.
var integerParams = map[string]struct{}{
	"page":  {},
	"limit": {},
}

// queryParams turns the query string into a parameter bag. Repeated keys
// become slices and integer parameters are parsed so that keys built from
// the bag match those of prefetched pages.
func queryParams(query url.Values, skip ...string) cache.Params {
	params := make(cache.Params, len(query))
	for key, values := range query {
		if len(values) == 0 || key == freshParam || contains(skip, key) {
			continue
		}
		if len(values) > 1 {
			params[key] = values
			continue
		}
		params[key] = parseValue(key, values[0])
	}
	return params
}

func parseValue(key, raw string) any {
	if _, ok := integerParams[key]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}

func isFresh(r *http.Request) bool {
	fresh, _ := strconv.ParseBool(r.URL.Query().Get(freshParam))
	return fresh
}

func intParam(query url.Values, key string) int {
	n, _ := strconv.Atoi(query.Get(key))
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
