package model

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumber_Format(t *testing.T) {
	now := time.Now()
	number := NewOrderNumber(now)

	require.Regexp(t, regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{9}$`), number)

	parts := strings.SplitN(number, "-", 3)
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ms)
}

func TestNewOrderNumber_SuffixVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(now)] = true
	}
	// same millisecond, random suffixes keep the numbers distinct
	assert.Greater(t, len(seen), 1)
}

func TestSubtotalSum(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, UnitPrice: 19900},
		{Quantity: 1, UnitPrice: 4900},
		{Quantity: 3, UnitPrice: 100},
	}
	assert.Equal(t, int64(2*19900+4900+300), SubtotalSum(items))
	assert.Equal(t, int64(0), SubtotalSum(nil))
}
