//go:build go1.22

package security

import (
	"net/url"
	"strings"
	"testing"
)

func FuzzSanitizeNextPath(f *testing.F) {
	seeds := []string{
		// Valid paths
		"/",
		"/dashboard",
		"/en/vehicles",
		"/vehiculos/civic-2021?color=rojo",
		"/precios#plans",

		// Schemes
		"http://evil.com",
		"https://evil.com/dashboard",
		"javascript:alert(1)",
		"data:text/html,<script>alert(1)</script>",
		"file:///etc/passwd",

		// Scheme-relative and slash tricks
		"//evil.com",
		"///evil.com",
		"/\\evil.com",
		"\\\\evil.com",
		"/%2f%2fevil.com",
		"/%5Cevil.com",
		"/.//evil.com",

		// CRLF and control characters
		"/dashboard\r\nSet-Cookie: evil=true",
		"/dashboard%0d%0aSet-Cookie:%20evil=true",
		"/\x00",
		"/\x1b[31mred",

		// Userinfo and host confusion
		"/@evil.com",
		"/dashboard@evil.com",
		"https://autos.example.com@evil.com",

		// Encoding edge cases
		"/%",
		"/%zz",
		"/%00",
		"/" + strings.Repeat("a", 5000),
		"/?" + strings.Repeat("a=b&", 1000),
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("SanitizeNextPath panicked on input %q: %v", input, r)
			}
		}()

		result, err := SanitizeNextPath(input)
		if err != nil {
			return
		}

		if !strings.HasPrefix(result, "/") {
			t.Errorf("result does not start with /: %q from input %q", result, input)
		}
		if strings.HasPrefix(result, "//") || strings.HasPrefix(result, "/\\") {
			t.Errorf("result is scheme-relative: %q from input %q", result, input)
		}
		for _, ch := range result {
			if ch < 0x20 || ch == 0x7f {
				t.Errorf("result contains control character %d: %q from input %q", ch, result, input)
			}
		}
		if strings.Contains(result, "#") {
			t.Errorf("result contains fragment: %q from input %q", result, input)
		}

		// A browser resolving the result against our origin must stay on it.
		base, _ := url.Parse("https://autos.example.com/")
		ref, perr := url.Parse(result)
		if perr != nil {
			t.Errorf("result does not parse: %q from input %q: %v", result, input, perr)
			return
		}
		if got := base.ResolveReference(ref); got.Host != base.Host {
			t.Errorf("result resolves off-site to %q: %q from input %q", got.Host, result, input)
		}
	})
}

func BenchmarkSanitizeNextPath(b *testing.B) {
	testCases := []struct {
		name string
		next string
	}{
		{name: "GoodPath", next: "/vehiculos/civic-2021?color=rojo#gallery"},
		{name: "BadPath", next: "//evil.com/dashboard"},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = SanitizeNextPath(tc.next)
			}
		})
	}
}
