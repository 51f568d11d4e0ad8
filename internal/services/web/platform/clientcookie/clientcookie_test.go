package clientcookie

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdresist/optimizer/internal/platform/id"
)

func TestRead(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatal("expected nil request to have no client cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, ok := Read(req); ok {
		t.Fatal("expected missing cookie")
	}

	req.AddCookie(&http.Cookie{Name: Name, Value: "not-an-id"})
	if _, ok := Read(req); ok {
		t.Fatal("expected malformed cookie to be rejected")
	}

	clientID, err := id.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: clientID})
	got, ok := Read(req)
	if !ok || got != clientID {
		t.Fatalf("Read = %q, %t; want %q", got, ok, clientID)
	}
}

func TestEnsureIssuesCookieOnce(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	rr := httptest.NewRecorder()
	clientID, err := Ensure(rr, req)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if cookie.Name != Name || cookie.Value != clientID {
		t.Fatalf("cookie = %s=%s, want %s=%s", cookie.Name, cookie.Value, Name, clientID)
	}
	if !cookie.HttpOnly || cookie.Secure {
		t.Fatalf("cookie flags HttpOnly=%t Secure=%t", cookie.HttpOnly, cookie.Secure)
	}

	next := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	next.AddCookie(cookie)
	rr = httptest.NewRecorder()
	again, err := Ensure(rr, next)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if again != clientID {
		t.Fatalf("client id = %q, want %q", again, clientID)
	}
	if rr.Header().Get("Set-Cookie") != "" {
		t.Fatal("expected no new cookie for a known client")
	}
}

func TestWriteMarksSecureOverTLS(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	req.TLS = &tls.ConnectionState{}
	rr := httptest.NewRecorder()
	Write(rr, req, "abc")
	cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	if err != nil {
		t.Fatalf("ParseSetCookie: %v", err)
	}
	if !cookie.Secure {
		t.Fatal("expected secure cookie over TLS")
	}
	Write(nil, req, "ignored")
}
