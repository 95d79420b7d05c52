package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatEntryNumber(t *testing.T) {
	date := time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "JNL250114/123", FormatEntryNumber("", date, 123))
	assert.Equal(t, "ADJ250114/999", FormatEntryNumber("ADJ", date, 999))
	assert.Regexp(t, `^[A-Z]+\d{6}/\d{3}$`, FormatEntryNumber("JNL", date, 5))
	assert.Regexp(t, `^JNL250114/\d{3}$`, FormatEntryNumber("JNL", date, 1500))
}

func TestRandomSuffixRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := RandomSuffix()
		assert.GreaterOrEqual(t, s, 100)
		assert.LessOrEqual(t, s, 999)
	}
}
