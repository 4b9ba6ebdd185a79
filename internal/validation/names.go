package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// StoreNamePattern определяет допустимый формат имени хранилища
// Первая строчная латинская буква, далее a-z, 0-9 и _$()+-
// Имя становится именем файла и сегментом URL, поэтому '/' запрещен
var StoreNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_$()+-]*$`)

// UsernamePattern определяет допустимый формат username
// Только строчные латинские буквы (a-z), цифры (0-9), нижнее подчеркивание (_)
var UsernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

const (
	// MaxStoreNameLen максимальная длина имени хранилища
	MaxStoreNameLen = 64
	// MaxDocumentIDLen максимальная длина id документа
	MaxDocumentIDLen = 128
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
)

// ValidateStoreName проверяет имя хранилища (локальной и удаленной базы)
func ValidateStoreName(name string) error {
	if name == "" {
		return fmt.Errorf("store name cannot be empty")
	}

	if len(name) > MaxStoreNameLen {
		return fmt.Errorf("store name must not exceed %d characters", MaxStoreNameLen)
	}

	if !StoreNamePattern.MatchString(name) {
		return fmt.Errorf("store name must start with a lowercase letter and contain only a-z, 0-9 and _$()+-")
	}

	return nil
}

// ValidateDocumentID проверяет id документа.
// Префикс "_" зарезервирован под служебные записи (_local/...)
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("document id cannot be empty")
	}

	if len(id) > MaxDocumentIDLen {
		return fmt.Errorf("document id must not exceed %d characters", MaxDocumentIDLen)
	}

	if strings.HasPrefix(id, "_") {
		return fmt.Errorf("document id must not start with an underscore")
	}

	return nil
}

// ValidateUsername проверяет, что username соответствует требованиям
// Формат: только строчные латинские буквы (a-z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain lowercase letters (a-z), numbers (0-9), and underscores (_)")
	}

	return nil
}
