package domain

import "fmt"

// Address is an immutable value object. Two addresses are equal when all
// fields match; it round-trips through a keyed mapping for persistence.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

func (a Address) ToMap() map[string]string {
	return map[string]string{
		"street":   a.Street,
		"city":     a.City,
		"state":    a.State,
		"zip_code": a.ZipCode,
		"country":  a.Country,
	}
}

func AddressFromMap(data map[string]string) Address {
	return Address{
		Street:  data["street"],
		City:    data["city"],
		State:   data["state"],
		ZipCode: data["zip_code"],
		Country: data["country"],
	}
}
