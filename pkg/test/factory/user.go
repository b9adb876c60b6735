package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "12345678"

// NewUser builds a user whose password is DefaultPassword unless EncryptedPassword is given.
func NewUser[T any](customData ...map[string]any) T {
	data := merge(customData)

	if _, exists := data["EncryptedPassword"]; !exists {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		data["EncryptedPassword"] = string(encryptedPassword)
	}

	return fab.New(*new(T)).Build(data)
}

// merge folds every override map into one, later maps winning.
// fabricator's Build only reads its first map.
func merge(customData []map[string]any) map[string]any {
	merged := map[string]any{}

	for _, data := range customData {
		for key, value := range data {
			merged[key] = value
		}
	}

	return merged
}

func provided(customData []map[string]any, key string) bool {
	for _, data := range customData {
		if _, exists := data[key]; exists {
			return true
		}
	}
	return false
}
