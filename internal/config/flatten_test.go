package config

import (
	"testing"
)

func TestFlatten_Nested(t *testing.T) {
	m := map[string]any{
		"http": map[string]any{
			"listen": "127.0.0.1:7318",
			"token":  "tok-123",
		},
		"backup": map[string]any{
			"retention": map[string]any{"days": 30.0},
		},
		"log_level": "info",
		"empty":     map[string]any{},
	}
	got := Flatten(m)

	want := map[string]any{
		"http.listen":           "127.0.0.1:7318",
		"http.token":            "tok-123",
		"backup.retention.days": 30.0,
		"log_level":             "info",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(got), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("expected %s=%v, got %v", k, v, got[k])
		}
	}
}

func TestUnflatten_Nested(t *testing.T) {
	got := Unflatten(map[string]any{
		"http.listen":  ":9000",
		"http.enabled": true,
		"a.b.c":        "deep",
		"log_level":    "debug",
	})

	http, ok := got["http"].(map[string]any)
	if !ok {
		t.Fatalf("expected http to be map, got %T", got["http"])
	}
	if http["listen"] != ":9000" || http["enabled"] != true {
		t.Errorf("unexpected http section %v", http)
	}
	b, ok := got["a"].(map[string]any)["b"].(map[string]any)
	if !ok || b["c"] != "deep" {
		t.Errorf("expected a.b.c=deep, got %v", got["a"])
	}
	if got["log_level"] != "debug" {
		t.Errorf("expected log_level=debug, got %v", got["log_level"])
	}
}

func TestRoundTrip_FlattenUnflatten(t *testing.T) {
	original := map[string]any{
		"data_dir":   "/home/test/journal",
		"identifier": "com.eliteos.app",
		"http": map[string]any{
			"listen": "127.0.0.1:7318",
			"token":  "tok-abcdef",
		},
		"backup": map[string]any{
			"schedule": "@daily",
			"keep":     10.0,
		},
	}

	restored := Unflatten(Flatten(original))

	if restored["data_dir"] != original["data_dir"] {
		t.Errorf("data_dir mismatch: %v != %v", restored["data_dir"], original["data_dir"])
	}
	http := restored["http"].(map[string]any)
	if http["token"] != "tok-abcdef" {
		t.Errorf("http.token mismatch: %v", http["token"])
	}
	backup := restored["backup"].(map[string]any)
	if backup["schedule"] != "@daily" || backup["keep"] != 10.0 {
		t.Errorf("backup section mismatch: %v", backup)
	}
}

func TestMaskSecrets(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  any
	}{
		{"long secret", "tok-1234567890", "***7890"},
		{"short secret", "ab", "***ab"},
		{"exactly four", "abcd", "***abcd"},
		{"empty", "", ""},
		{"non-string", 42.0, 42.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MaskSecrets(map[string]any{
				"http.token":  c.value,
				"http.listen": ":7318",
			})
			if got["http.token"] != c.want {
				t.Errorf("expected http.token=%v, got %v", c.want, got["http.token"])
			}
			if got["http.listen"] != ":7318" {
				t.Errorf("non-secret changed: %v", got["http.listen"])
			}
		})
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("http.token") {
		t.Error("expected http.token to be secret")
	}
	if IsSecretKey("http.listen") {
		t.Error("expected http.listen not to be secret")
	}
}
