package helpers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var publicIDPattern = regexp.MustCompile(`^card-\d+-[0-9a-z]{9}$`)

func TestNewPublicID_Format(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	id := NewPublicID(now)

	assert.Regexp(t, publicIDPattern, id)
	assert.Contains(t, id, "card-1767225600123-")
}

func TestNewPublicID_Distinct(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		seen[NewPublicID(now)] = struct{}{}
	}
	assert.Len(t, seen, 200)
}
