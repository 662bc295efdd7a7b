package services

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewShareTokenFormat(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := NewShareToken(InstrumentMBTI, now)
	if err != nil {
		t.Fatalf("NewShareToken returned error: %v", err)
	}
	parts := strings.SplitN(tok, "_", 3)
	if len(parts) != 3 {
		t.Fatalf("token %q does not have 3 parts", tok)
	}
	if parts[0] != "mbti" {
		t.Fatalf("token prefix = %q, want mbti", parts[0])
	}
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || ms != now.UnixMilli() {
		t.Fatalf("token time component = %q, want %d", parts[1], now.UnixMilli())
	}
	if len(parts[2]) != 18 {
		t.Fatalf("token suffix length = %d, want 18 hex chars", len(parts[2]))
	}
}

func TestNewShareTokenUnique(t *testing.T) {
	now := time.Now().UTC()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewShareToken(InstrumentRIASEC, now)
		if err != nil {
			t.Fatalf("NewShareToken returned error: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token generated: %q", tok)
		}
		seen[tok] = true
	}
}

func TestShareTokenExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := ShareTokenExpiry(now)
	if got := exp.Sub(now); got != 7*24*time.Hour {
		t.Fatalf("expiry offset = %v, want 168h", got)
	}
}
