package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("paul@example.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.example.org"))

	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@tld"))
	assert.False(t, ValidEmail(strings.Repeat("a", 250)+"@example.com"))
}
