package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindInvalidInput, want: http.StatusBadRequest},
		{kind: KindMissingElement, want: http.StatusBadRequest},
		{kind: KindNotFound, want: http.StatusNotFound},
		{kind: KindForbidden, want: http.StatusForbidden},
		{kind: KindUnavailable, want: http.StatusServiceUnavailable},
		{kind: KindNetworkFailure, want: http.StatusBadGateway},
		{kind: KindStorageCorrupt, want: http.StatusInternalServerError},
		{kind: KindUnknown, want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(E(tc.kind, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindParseFailure}
	if got := err.Error(); got != string(KindParseFailure) {
		t.Fatalf("Error() = %q, want %q", got, string(KindParseFailure))
	}
}

func TestWrapKeepsCauseAndKindThroughFmtWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := fmt.Errorf("load list: %w", Wrap(KindNetworkFailure, "fetch failed", cause))
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if got := KindOf(err); got != KindNetworkFailure {
		t.Fatalf("KindOf = %q, want %q", got, KindNetworkFailure)
	}
	if !Is(err, KindNetworkFailure) || Is(err, KindParseFailure) {
		t.Fatal("Is did not match the wrapped kind")
	}
	if got := err.Error(); got != "load list: fetch failed: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestKindOfUntypedAndNil(t *testing.T) {
	t.Parallel()

	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q, want empty", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("KindOf(plain) = %q, want %q", got, KindUnknown)
	}
	if Is(nil, KindUnknown) {
		t.Fatal("Is(nil) = true, want false")
	}
}

func TestLocalizationKeyReturnsTrimmedKey(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", EK(KindInvalidInput, " error.field_unknown ", "unknown field"))
	if got := LocalizationKey(err); got != "error.field_unknown" {
		t.Fatalf("LocalizationKey = %q", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
	if got := LocalizationKey(nil); got != "" {
		t.Fatalf("LocalizationKey(nil) = %q, want empty", got)
	}
}
