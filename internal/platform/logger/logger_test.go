package logger

import "testing"

func TestSanitizeValue_RedactsSensitiveKeys(t *testing.T) {
	cases := []struct {
		key  string
		val  interface{}
		want interface{}
	}{
		{key: "password", val: "hunter22", want: "[REDACTED]"},
		{key: "access_token", val: "abc", want: "[REDACTED]"},
		{key: "email", val: "a@b.c", want: "[REDACTED]"},
		{key: "topic_id", val: "t1", want: "t1"},
		{key: "status", val: 200, want: 200},
	}
	for _, tc := range cases {
		got := sanitizeValue(tc.key, tc.val)
		if got != tc.want {
			t.Fatalf("sanitizeValue(%q): got %v want %v", tc.key, got, tc.want)
		}
	}
}

func TestSanitizeValue_HashesUserIDs(t *testing.T) {
	got, ok := sanitizeValue("user_id", "7f0c").(string)
	if !ok {
		t.Fatalf("expected string result")
	}
	if got == "7f0c" || len(got) != len("hash:")+12 {
		t.Fatalf("expected hashed value, got %q", got)
	}
	if again := sanitizeValue("user_id", "7f0c"); again != got {
		t.Fatalf("expected stable hash, got %v and %v", got, again)
	}
}

func TestSanitizeValue_RedactsJWTLookingStrings(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := sanitizeValue("detail", jwt); got != "[REDACTED]" {
		t.Fatalf("expected redaction, got %v", got)
	}
}

func TestNew_TestModeIsSilent(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello", "k", "v")
	l.With("service", "X").Debug("ok")
}
