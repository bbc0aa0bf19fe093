package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

// Константы валидации
const (
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinMilestoneTitleLength = 1
	MaxMilestoneTitleLength = 200
	MinDisputeReasonLength  = 3
	MaxDisputeReasonLength  = 2000
	MaxContentRefLength     = 500
	MaxSkillLength          = 50
	MaxSkillsCount          = 50
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("%s должен быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("%s должен быть не более %d символов", fieldName, max))
	}
	return nil
}

// ValidateContentRef проверяет непрозрачную ссылку на контент:
// она обязана быть непустой и разумной длины. Само содержимое
// хранится вне системы и здесь не разрешается.
func ValidateContentRef(fieldName, ref string) error {
	if ref == "" {
		return apperror.ErrEmptyReference
	}
	if utf8.RuneCountInString(ref) > MaxContentRefLength {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("ссылка на %s слишком длинная", fieldName))
	}
	return nil
}

// ValidateSkills проверяет список требуемых навыков.
func ValidateSkills(skills []string) error {
	if len(skills) > MaxSkillsCount {
		return apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("не более %d навыков", MaxSkillsCount))
	}
	for _, skill := range skills {
		if err := ValidateLength("навык", skill, 1, MaxSkillLength); err != nil {
			return err
		}
	}
	return nil
}
