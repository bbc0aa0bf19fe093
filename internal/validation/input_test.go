package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("заголовок", "abc", 3, 10))
	assert.Error(t, ValidateLength("заголовок", "ab", 3, 10))
	assert.Error(t, ValidateLength("заголовок", strings.Repeat("a", 11), 3, 10))

	// Длина считается в рунах, не в байтах.
	assert.NoError(t, ValidateLength("заголовок", "привет", 3, 10))
}

func TestValidateContentRef(t *testing.T) {
	assert.NoError(t, ValidateContentRef("профиль", "ipfs://QmAbc"))

	err := ValidateContentRef("профиль", "")
	assert.ErrorIs(t, err, apperror.ErrEmptyReference)

	err = ValidateContentRef("профиль", strings.Repeat("x", MaxContentRefLength+1))
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateSkills(t *testing.T) {
	assert.NoError(t, ValidateSkills(nil))
	assert.NoError(t, ValidateSkills([]string{"go", "postgres"}))

	assert.Error(t, ValidateSkills([]string{""}))
	assert.Error(t, ValidateSkills([]string{strings.Repeat("a", MaxSkillLength+1)}))

	many := make([]string, MaxSkillsCount+1)
	for i := range many {
		many[i] = "skill"
	}
	assert.Error(t, ValidateSkills(many))
}
