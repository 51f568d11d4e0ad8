// Package weberror renders user-facing error responses.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/gdresist/optimizer/internal/services/web/platform/pagerender"
	webtemplates "github.com/gdresist/optimizer/internal/services/web/templates"
)

// ShouldRenderErrorPage reports whether status gets the HTML error page
// rather than a plain message.
func ShouldRenderErrorPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message. Raw error text
// is never returned.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WritePageError answers a page request that failed with err.
func WritePageError(w http.ResponseWriter, r *http.Request, err error, lang string, loc webtemplates.Localizer) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if !ShouldRenderErrorPage(statusCode) {
		http.Error(w, PublicMessage(loc, err), statusCode)
		return
	}
	if renderErr := pagerender.WritePage(w, r, statusCode, webtemplates.ErrorPage(statusCode, lang, loc)); renderErr != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}
