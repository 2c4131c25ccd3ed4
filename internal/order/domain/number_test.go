package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var orderNumberPattern = regexp.MustCompile(`^QH-\d{8}-\d{5}$`)

func TestGenerateOrderNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber("QH")
		assert.Regexp(t, orderNumberPattern, n)
	}
}

func TestGenerateOrderNumberUsesUTCDate(t *testing.T) {
	n := GenerateOrderNumber("QH")
	assert.Equal(t, "QH-"+time.Now().UTC().Format("20060102"), n[:11])
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	// Not a uniqueness guarantee, just a sanity check that the random
	// component moves. Collisions are handled by the orchestrator.
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[GenerateOrderNumber("QH")] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
