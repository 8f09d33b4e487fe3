// internal/service/backend/address.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"signup-service/internal/domain/signup"
)

// Address result overrides from the developer panel.
const (
	AddressResultNormal = "NORMAL"
	AddressResultNone   = "NONE"
	AddressResultError  = "ERROR"
)

const (
	minQueryLength = 2
	maxResults     = 15
)

// ErrAddressLookup is the simulated failure of the address service.
var ErrAddressLookup = errors.New("Simulerat API-fel vid adresshämtning")

var knownAddresses = []signup.Address{
	{Street: "Luleåvägen", Number: "10", PostalCode: "97231", City: "Luleå", Type: signup.AddressTypeApartment, Elomrade: signup.SE1},
	{Street: "Kirunagatan", Number: "5", PostalCode: "98131", City: "Kiruna", Type: signup.AddressTypeVilla, Elomrade: signup.SE1},
	{Street: "Umeåvägen", Number: "3", PostalCode: "90325", City: "Umeå", Type: signup.AddressTypeVilla, Elomrade: signup.SE2},
	{Street: "Sundsvallsgatan", Number: "8", PostalCode: "85231", City: "Sundsvall", Type: signup.AddressTypeApartment, Elomrade: signup.SE2},
	{Street: "Östersundsvägen", Number: "12", PostalCode: "83131", City: "Östersund", Type: signup.AddressTypeVilla, Elomrade: signup.SE2},
	{Street: "Storgatan", Number: "1", PostalCode: "11122", City: "Stockholm", Type: signup.AddressTypeApartment, Elomrade: signup.SE3},
	{Street: "Drottninggatan", Number: "14", PostalCode: "11122", City: "Stockholm", Type: signup.AddressTypeVilla, Elomrade: signup.SE3},
	{Street: "Avenyn", Number: "5", PostalCode: "41118", City: "Göteborg", Type: signup.AddressTypeApartment, Elomrade: signup.SE3},
	{Street: "Kungsgatan", Number: "7", PostalCode: "41118", City: "Göteborg", Type: signup.AddressTypeVilla, Elomrade: signup.SE3},
	{Street: "Villavägen", Number: "8", PostalCode: "75236", City: "Uppsala", Type: signup.AddressTypeVilla, Elomrade: signup.SE3},
	{Street: "Malmövägen", Number: "22", PostalCode: "21141", City: "Malmö", Type: signup.AddressTypeApartment, Elomrade: signup.SE4},
	{Street: "Lundavägen", Number: "4", PostalCode: "22221", City: "Lund", Type: signup.AddressTypeVilla, Elomrade: signup.SE4},
	{Street: "Växjövägen", Number: "6", PostalCode: "35231", City: "Växjö", Type: signup.AddressTypeApartment, Elomrade: signup.SE4},
}

type AddressService struct {
	searchDelay    time.Duration
	apartmentDelay time.Duration
}

func NewAddressService(latency time.Duration) *AddressService {
	// latency is the scenario call's; the other calls are scaled from it
	return &AddressService{searchDelay: latency * 3 / 8, apartmentDelay: latency / 2}
}

// Search matches street, city or postal code and pads the result with a few
// generated addresses spread over the price regions.
func (s *AddressService) Search(ctx context.Context, query, override string) ([]signup.Address, error) {
	if err := wait(ctx, s.searchDelay); err != nil {
		return nil, err
	}

	switch override {
	case AddressResultNone:
		return []signup.Address{}, nil
	case AddressResultError:
		return nil, fmt.Errorf("address search: %w", ErrAddressLookup)
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []signup.Address{}, nil
	}

	q := strings.ToLower(query)
	out := make([]signup.Address, 0, maxResults)
	for _, a := range knownAddresses {
		if strings.Contains(strings.ToLower(a.Street), q) ||
			strings.Contains(strings.ToLower(a.City), q) ||
			strings.Contains(a.PostalCode, q) {
			out = append(out, a)
		}
	}
	out = append(out, generated(query)...)
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func generated(query string) []signup.Address {
	r, size := utf8.DecodeRuneInString(query)
	stem := string(unicode.ToUpper(r)) + query[size:]
	return []signup.Address{
		{Street: stem + "vägen", Number: "1", PostalCode: "97200", City: "Luleå", Type: signup.AddressTypeVilla, Elomrade: signup.SE1},
		{Street: stem + "gatan", Number: "2", PostalCode: "90300", City: "Umeå", Type: signup.AddressTypeApartment, Elomrade: signup.SE2},
		{Street: stem + "gränd", Number: "3", PostalCode: "11100", City: "Stockholm", Type: signup.AddressTypeApartment, Elomrade: signup.SE3},
		{Street: stem + "allén", Number: "4", PostalCode: "41100", City: "Göteborg", Type: signup.AddressTypeVilla, Elomrade: signup.SE3},
		{Street: stem + "stigen", Number: "5", PostalCode: "21100", City: "Malmö", Type: signup.AddressTypeVilla, Elomrade: signup.SE4},
	}
}

// Apartments lists the apartment numbers of a building: four floors of three
// units, numbered 1001 to 1303.
func (s *AddressService) Apartments(ctx context.Context, _ signup.Address) ([]string, error) {
	if err := wait(ctx, s.apartmentDelay); err != nil {
		return nil, err
	}
	out := make([]string, 0, 12)
	for floor := 10; floor < 14; floor++ {
		for unit := 1; unit <= 3; unit++ {
			out = append(out, fmt.Sprintf("%d%02d", floor, unit))
		}
	}
	return out, nil
}
