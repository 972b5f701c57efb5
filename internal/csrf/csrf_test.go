package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Token(r)))
	}))
}

func TestGetIssuesCookieAndExposesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	okHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected a %s cookie, got %v", CookieName, cookies)
	}
	if rec.Body.String() != cookies[0].Value {
		t.Fatalf("expected token in context to match cookie, got %q vs %q", rec.Body.String(), cookies[0].Value)
	}
	if len(cookies[0].Value) != 2*tokenLen {
		t.Fatalf("unexpected token length %d", len(cookies[0].Value))
	}
}

func TestGetKeepsExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	okHandler().ServeHTTP(rec, req)

	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie")
	}
	if rec.Body.String() != "existing" {
		t.Fatalf("expected existing token, got %q", rec.Body.String())
	}
}

func TestPostRequiresMatchingToken(t *testing.T) {
	cases := []struct {
		name   string
		cookie string
		header string
		field  string
		want   int
	}{
		{"no cookie", "", "abc", "", http.StatusForbidden},
		{"no token", "abc", "", "", http.StatusForbidden},
		{"mismatch", "abc", "abd", "", http.StatusForbidden},
		{"header", "abc", "abc", "", http.StatusOK},
		{"form field", "abc", "", "abc", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			if tc.field != "" {
				form.Set(FieldName, tc.field)
			}
			req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set(HeaderName, tc.header)
			}
			rec := httptest.NewRecorder()
			okHandler().ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
