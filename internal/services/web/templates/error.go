package templates

import "net/http"

const (
	errorTitleNotFoundKey    = "error.title_not_found"
	errorTitleServerErrKey   = "error.title_server_error"
	errorMessageNotFoundKey  = "error.message_not_found"
	errorMessageServerErrKey = "error.message_server_error"
	errorBackToOptimizerKey  = "error.back_home"
)

// ErrorPageTitle returns the heading for an error page.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorTitleNotFoundKey)
	}
	return T(loc, errorTitleServerErrKey)
}

func errorMessage(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorMessageNotFoundKey)
	}
	return T(loc, errorMessageServerErrKey)
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
