package instrumentation

import "strconv"

// Label helpers that keep metric cardinality bounded. Bot ids, meeting URLs
// and query text must never become label values.

// StatusClass folds an HTTP status code into "2xx", "4xx" and so on.
// Zero means the request never produced a response.
func StatusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}

// BoundedLabel returns value when it is one of allowed, otherwise "other".
func BoundedLabel(value string, allowed ...string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return "other"
}
