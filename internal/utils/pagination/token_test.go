package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard date/time values
	cursor := Cursor{
		EntryDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		EntryID:   "7b0f6f0e-3c1e-4f57-9e7e-2f4f3c1d9a10",
	}

	// Encode the token
	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	// Decode the token and verify
	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, cursor, decoded, "Cursor should match after decode")

	// Test case 2: Current time values
	now := time.Now().UTC()
	nowToken := EncodeToken(Cursor{EntryDate: now, CreatedAt: now, EntryID: "x"})
	decodedNow, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNow.EntryDate), "Current date should match after decode")
	assert.True(t, now.Equal(decodedNow.CreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (wrong number of fields)
	_, err = DecodeToken(EncodeMultiFieldToken("2023-05-15T00:00:00Z"))
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid date format
	_, err = DecodeToken(EncodeMultiFieldToken("notadate", "2023-05-15T14:30:45Z", "id"))
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "entry date parse", "Error should mention date parsing issue")

	// Test missing id
	_, err = DecodeToken(EncodeMultiFieldToken("2023-05-15T00:00:00Z", "2023-05-15T14:30:45Z", ""))
	assert.Error(t, err)
}

func TestCursorAfter(t *testing.T) {
	d := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c := Cursor{EntryDate: d, CreatedAt: created, EntryID: "m"}

	assert.True(t, c.After(d.AddDate(0, 0, -1), created, "z"), "older date comes after")
	assert.False(t, c.After(d.AddDate(0, 0, 1), created, "a"), "newer date comes before")
	assert.True(t, c.After(d, created.Add(-time.Second), "z"))
	assert.True(t, c.After(d, created, "a"))
	assert.False(t, c.After(d, created, "m"), "the cursor row itself is excluded")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}
