package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver("https://media.example/logos/")

	assert.Equal(t, "", r.Resolve(""))
	assert.Equal(t, "https://cdn.other/x.png", r.Resolve("https://cdn.other/x.png"))
	assert.Equal(t, "https://media.example/logos/u1/logo.png", r.Resolve("/u1/logo.png"))
	assert.Equal(t, "https://media.example/logos/u1/logo.png", r.Resolve("u1/logo.png"))

	bare := NewResolver("")
	assert.Equal(t, "u1/logo.png", bare.Resolve("u1/logo.png"))
}
