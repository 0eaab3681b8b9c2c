package domain

import "time"

type Customer struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
