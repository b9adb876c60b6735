package cursor

import (
	"errors"
	"testing"
)

func TestEncodeDecodeCursor(t *testing.T) {
	codec := New("test-secret-key-123")

	testTimestamp := int64(1757684272264)
	testID := int64(123)

	encoded := codec.Encode(testTimestamp, testID)
	t.Logf("Encoded cursor: %s", encoded)

	decoded, err := codec.Decode(encoded)

	if err != nil {
		t.Fatalf("Failed to decode cursor: %v", err)
	}

	if decoded.Timestamp != testTimestamp {
		t.Errorf("Expected timestamp %d, got %d", testTimestamp, decoded.Timestamp)
	}

	if decoded.ID != testID {
		t.Errorf("Expected ID %d, got %d", testID, decoded.ID)
	}
}

func TestDecodeInvalidCursor(t *testing.T) {
	codec := New("test-secret-key-123")

	if _, err := codec.Decode("invalid-cursor"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected invalid format error, got %v", err)
	}

	if _, err := codec.Decode("eyJ0aW1lc3RhbXAiOjF9.invalid-signature"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected invalid signature error, got %v", err)
	}
}

func TestDecodeCursorFromOtherSecret(t *testing.T) {
	token := New("secret-a").Encode(1, 1)

	if _, err := New("secret-b").Decode(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected signature mismatch, got %v", err)
	}
}
