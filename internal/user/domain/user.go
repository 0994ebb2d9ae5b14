package domain

import "github.com/google/uuid"

type ID = uuid.UUID

type User struct {
	ID          ID
	Name        string
	DateOfBirth Date
}
