package httpx

import (
	"net/http"
	"strings"
)

// Result is the outcome of one pipeline stage: an optional redirect, headers
// for the final response, a cookie set keyed by name and the upstream rewrite.
type Result struct {
	Status  int
	Header  http.Header
	Rewrite string

	cookies []*http.Cookie
}

// NewResult returns an empty pass-through result.
func NewResult() *Result {
	return &Result{Header: make(http.Header)}
}

// SetCookie adds c, replacing any cookie of the same name.
func (res *Result) SetCookie(c *http.Cookie) {
	for i, existing := range res.cookies {
		if existing.Name == c.Name {
			res.cookies[i] = c
			return
		}
	}
	res.cookies = append(res.cookies, c)
}

// Cookies returns the cookie set in insertion order.
func (res *Result) Cookies() []*http.Cookie {
	return res.cookies
}

// Redirect turns the result into a redirect to location.
func (res *Result) Redirect(status int, location string) {
	res.Status = status
	res.Header.Set(HeaderLocation, location)
}

// Redirected reports whether the result ends the request with a redirect.
func (res *Result) Redirected() bool {
	return res.Header.Get(HeaderLocation) != ""
}

// MergeFrom copies every cookie of other onto res, overwriting by name, and
// the X-Edge-* metadata headers. Other headers of other are not carried.
func (res *Result) MergeFrom(other *Result) {
	for _, c := range other.cookies {
		res.SetCookie(c)
	}
	for name, values := range other.Header {
		if !strings.HasPrefix(http.CanonicalHeaderKey(name), EdgeHeaderPrefix) {
			continue
		}
		res.Header[name] = append([]string(nil), values...)
	}
}

// Apply writes headers and cookies to w without writing a status. Identity
// headers stay on the result for the upstream request only.
func (res *Result) Apply(w http.ResponseWriter) {
	for name, values := range res.Header {
		if upstreamOnly[http.CanonicalHeaderKey(name)] {
			continue
		}
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	for _, c := range res.cookies {
		http.SetCookie(w, c)
	}
}

// Write applies the result and writes its status. Used for redirects, which
// carry no body.
func (res *Result) Write(w http.ResponseWriter) {
	noStore(w)
	res.Apply(w)
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}
