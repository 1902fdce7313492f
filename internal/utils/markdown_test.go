package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Title\n\nSome **bold** text")
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestRenderMarkdown_StripsScripts(t *testing.T) {
	out := RenderMarkdown("hello <script>alert(1)</script> world")
	if strings.Contains(out, "<script") {
		t.Errorf("script tag survived sanitization: %s", out)
	}
}

func TestSanitizeText(t *testing.T) {
	out := SanitizeText(`great tool <img src=x onerror=alert(1)> really`)
	if strings.Contains(out, "<img") {
		t.Errorf("markup survived: %s", out)
	}
	if !strings.Contains(out, "great tool") {
		t.Errorf("text content lost: %s", out)
	}
}

func TestGenerateRandomCode(t *testing.T) {
	code := GenerateRandomCode(6)
	if len(code) != 6 {
		t.Fatalf("len = %d, want 6", len(code))
	}
	for _, ch := range code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			t.Errorf("unexpected character %q", ch)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
