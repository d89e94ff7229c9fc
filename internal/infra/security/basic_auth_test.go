package security

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestParseBasicAuth(t *testing.T) {
	t.Run("parses a valid header", func(t *testing.T) {
		header := "Basic " + base64.StdEncoding.EncodeToString([]byte("editor:s3cret"))

		creds, err := ParseBasicAuth(header)
		if err != nil {
			t.Fatalf("parse basic auth: %v", err)
		}
		if creds.Username != "editor" {
			t.Fatalf("unexpected username %q", creds.Username)
		}
		if creds.Password != "s3cret" {
			t.Fatalf("unexpected password %q", creds.Password)
		}
	})

	t.Run("splits on the first colon only", func(t *testing.T) {
		header := "Basic " + base64.StdEncoding.EncodeToString([]byte("editor:pa:ss:word"))

		creds, err := ParseBasicAuth(header)
		if err != nil {
			t.Fatalf("parse basic auth: %v", err)
		}
		if creds.Password != "pa:ss:word" {
			t.Fatalf("unexpected password %q", creds.Password)
		}
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		if _, err := ParseBasicAuth(""); !errors.Is(err, ErrMissingAuthorization) {
			t.Fatalf("expected ErrMissingAuthorization, got %v", err)
		}
	})

	t.Run("rejects non basic schemes", func(t *testing.T) {
		if _, err := ParseBasicAuth("Bearer abc"); !errors.Is(err, ErrNotBasicScheme) {
			t.Fatalf("expected ErrNotBasicScheme, got %v", err)
		}
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		if _, err := ParseBasicAuth("Basic %%%"); err == nil {
			t.Fatal("expected invalid base64 to be rejected")
		}
	})

	t.Run("rejects payloads without a colon", func(t *testing.T) {
		header := "Basic " + base64.StdEncoding.EncodeToString([]byte("editoronly"))
		if _, err := ParseBasicAuth(header); err == nil {
			t.Fatal("expected missing colon to be rejected")
		}
	})
}
