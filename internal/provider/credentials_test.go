package provider

import "testing"

func TestRedactHidesPasswords(t *testing.T) {
	v := testCreds().queryValues()
	redacted := redact(v)
	if redacted.Get("devpassword") != "redacted" || redacted.Get("sspassword") != "redacted" {
		t.Fatalf("passwords not redacted: %+v", redacted)
	}
	if redacted.Get("devid") != "dev" {
		t.Fatalf("non-secret fields should pass through unchanged")
	}
}

func TestQueryValuesIncludesRequiredFields(t *testing.T) {
	v := testCreds().queryValues()
	for _, key := range []string{"devid", "devpassword", "softname", "ssid", "sspassword", "output"} {
		if v.Get(key) == "" {
			t.Errorf("missing required query field %q", key)
		}
	}
}
