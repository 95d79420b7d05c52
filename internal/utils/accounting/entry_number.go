package accounting

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	DefaultEntryNumberPrefix = "JNL"
	entrySuffixMin           = 100
	entrySuffixMax           = 999
)

// SuffixSource returns a number in [100, 999] for entry numbers.
type SuffixSource func() int

// RandomSuffix draws a uniformly random entry number suffix.
func RandomSuffix() int {
	return entrySuffixMin + rand.IntN(entrySuffixMax-entrySuffixMin+1)
}

// FormatEntryNumber builds PREFIXyymmdd/NNN for the given date and suffix.
func FormatEntryNumber(prefix string, date time.Time, suffix int) string {
	if prefix == "" {
		prefix = DefaultEntryNumberPrefix
	}
	if suffix < entrySuffixMin || suffix > entrySuffixMax {
		suffix = entrySuffixMin + ((suffix%900)+900)%900
	}
	return fmt.Sprintf("%s%s/%03d", prefix, date.Format("060102"), suffix)
}
