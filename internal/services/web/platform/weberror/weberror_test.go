package weberror

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	webi18n "github.com/gdresist/optimizer/internal/services/web/i18n"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"golang.org/x/text/language"
)

func TestWritePageErrorRendersErrorPageForNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()
	WritePageError(rr, req, apperrors.E(apperrors.KindNotFound, "missing"), "en-US", webi18n.Printer(language.AmericanEnglish))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if body := rr.Body.String(); !strings.Contains(body, "Page not found") {
		t.Fatalf("body = %q", body)
	}
}

func TestWritePageErrorWritesLocalizedTextForBadRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	rr := httptest.NewRecorder()
	err := apperrors.EK(apperrors.KindInvalidInput, "error.invalid_number", `field "char-level" must be a whole number`)
	WritePageError(rr, req, err, "pt-BR", webi18n.Printer(language.BrazilianPortuguese))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Informe um número inteiro.") {
		t.Fatalf("body = %q", body)
	}
	if strings.Contains(body, "char-level") {
		t.Fatalf("body leaked internal detail: %q", body)
	}
}

func TestPublicMessageFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(nil, apperrors.E(apperrors.KindUnavailable, "store down")); got != http.StatusText(http.StatusServiceUnavailable) {
		t.Fatalf("message = %q", got)
	}
	if got := PublicMessage(nil, nil); got != "" {
		t.Fatalf("nil err message = %q", got)
	}
}
