package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNameFallbackChain(t *testing.T) {
	assert.Equal(t, "Joe's Cafe", Profile{Name: "Joe's Cafe"}.DisplayName("Joe"))
	assert.Equal(t, "Joe", Profile{Name: "  "}.DisplayName("Joe"))
	assert.Equal(t, "Stored Joe", Profile{OwnerDisplayName: "Stored Joe"}.DisplayName(""))
	assert.Equal(t, PlaceholderName, Profile{}.DisplayName(""))
}

func TestApplyLeavesAbsentFieldsUntouched(t *testing.T) {
	saved := Profile{OwnerID: "u1", Name: "A", Category: "retail"}
	got := saved.Apply(ProfilePatch{Description: StringPtr("x")})

	assert.Equal(t, "A", got.Name)
	assert.Equal(t, Category("retail"), got.Category)
	assert.Equal(t, "x", got.Description)
	assert.Equal(t, "", saved.Description, "receiver must not be mutated")
}

func TestPatchMergeLaterWins(t *testing.T) {
	first := ProfilePatch{Name: StringPtr("A"), Description: StringPtr("one")}
	merged := first.Merge(ProfilePatch{Description: StringPtr("two")})

	require.NotNil(t, merged.Name)
	assert.Equal(t, "A", *merged.Name)
	assert.Equal(t, "two", *merged.Description)
	assert.True(t, ProfilePatch{}.IsEmpty())
	assert.False(t, merged.IsEmpty())
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory(" Shop ")
	require.NoError(t, err)
	assert.Equal(t, Category("retail"), c)

	c, err = NewCategory("")
	require.NoError(t, err)
	assert.Equal(t, Category(""), c)

	_, err = NewCategory("spaceport")
	assert.True(t, errors.Is(err, ErrInvalidCategory))
}

func TestNewReviewURL(t *testing.T) {
	got, err := NewReviewURL(" https://g.page/r/abc ")
	require.NoError(t, err)
	assert.Equal(t, "https://g.page/r/abc", got)

	for _, bad := range []string{"g.page/r/abc", "ftp://example.com/x", "https://"} {
		_, err := NewReviewURL(bad)
		assert.ErrorIs(t, err, ErrInvalidReviewURL, bad)
	}
}

func TestValidateOwnerID(t *testing.T) {
	for _, ok := range []string{"u1", "Xy9-_.~", "aZ09aZ09aZ09aZ09aZ09aZ09aZ09"} {
		assert.NoError(t, ValidateOwnerID(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", "a b", "ü", "a?b", string(make([]byte, MaxOwnerIDLength+1))} {
		assert.ErrorIs(t, ValidateOwnerID(bad), ErrInvalidIdentifier, bad)
	}
}

func TestPatchValidate(t *testing.T) {
	assert.NoError(t, ProfilePatch{}.Validate())
	assert.NoError(t, ProfilePatch{Category: CategoryPtr("cafe"), ExternalReviewURL: StringPtr("")}.Validate())
	assert.ErrorIs(t, ProfilePatch{Category: CategoryPtr("shop")}.Validate(), ErrInvalidCategory)
	assert.ErrorIs(t, ProfilePatch{Category: CategoryPtr("moon")}.Validate(), ErrInvalidCategory)
	assert.ErrorIs(t, ProfilePatch{ExternalReviewURL: StringPtr("nope")}.Validate(), ErrInvalidReviewURL)
}
