package postgres

import (
	"database/sql"
	"encoding/json"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches no rows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fakeErr("pq: relation matches does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestNullPtrRoundTrips(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		v := 12.5
		if got := nullFloat64ToPtr(ptrToNullFloat64(&v)); got == nil || *got != v {
			t.Fatalf("expected %v back, got %v", v, got)
		}
		if got := nullFloat64ToPtr(ptrToNullFloat64(nil)); got != nil {
			t.Fatalf("expected nil back, got %v", *got)
		}
	})

	t.Run("int64", func(t *testing.T) {
		v := int64(42)
		if got := nullInt64ToPtr(ptrToNullInt64(&v)); got == nil || *got != v {
			t.Fatalf("expected %d back, got %v", v, got)
		}
		if got := nullInt64ToPtr(ptrToNullInt64(nil)); got != nil {
			t.Fatalf("expected nil back, got %v", *got)
		}
	})

	t.Run("string", func(t *testing.T) {
		v := "anfield"
		if got := nullStringToPtr(ptrToNullString(&v)); got == nil || *got != v {
			t.Fatalf("expected %q back, got %v", v, got)
		}
		if got := nullStringToPtr(ptrToNullString(nil)); got != nil {
			t.Fatalf("expected nil back, got %q", *got)
		}
	})
}

func TestJSONBOrNull(t *testing.T) {
	t.Run("empty payload becomes null", func(t *testing.T) {
		if got := jsonbOrNull(nil); got != nil {
			t.Fatalf("expected nil for empty payload, got %v", got)
		}
	})

	t.Run("payload passes through as bytes", func(t *testing.T) {
		got := jsonbOrNull(json.RawMessage(`{"length":12}`))
		b, ok := got.([]byte)
		if !ok {
			t.Fatalf("expected []byte, got %T", got)
		}
		if string(b) != `{"length":12}` {
			t.Fatalf("unexpected payload: %s", b)
		}
	})
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
