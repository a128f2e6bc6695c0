package auth

import "github.com/google/uuid"

// GenerateSessionToken returns a new opaque session token.
func GenerateSessionToken() (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return token.String(), nil
}
