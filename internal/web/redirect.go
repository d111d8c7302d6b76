package web

import (
	"net/http"
	"net/url"
	"strings"
)

// Back redirects to the Referer when it points at this site, else to fallback.
func Back(w http.ResponseWriter, r *http.Request, fallback string) {
	target := fallback
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = LocalPath(ref.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LocalPath keeps only same-site absolute paths; anything else is "/".
func LocalPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
