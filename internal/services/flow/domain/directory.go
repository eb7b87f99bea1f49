package domain

import (
	"context"
	"errors"
	"strings"
)

// AgentKnownPhoneNumber is the mock verification phone the calling agent is
// expected to know without asking the user.
const AgentKnownPhoneNumber = "731527923"

// Customer is one record in the user directory.
type Customer struct {
	CustomerID       string
	Name             string
	RodneCisloSuffix string
	PhoneNumber      string
	Email            string
	CurrentPlanMbps  int
}

// Directory lookup errors. Each names the credential field that failed so
// authenticate_user can report the original rejection reason.
var (
	ErrUnknownName     = errors.New("unknown user name")
	ErrSuffixMismatch  = errors.New("invalid rodne_cislo_suffix")
	ErrPhoneMismatch   = errors.New("invalid phone_number")
	ErrUnknownCustomer = errors.New("unknown customer id")
)

// UserDirectory resolves caller-supplied credentials to customer records.
// Lookups may block on I/O in directory implementations backed by a table.
type UserDirectory interface {
	// Lookup verifies name, rodne cislo suffix, and phone against a single
	// record. All three must match.
	Lookup(ctx context.Context, name, suffix, phone string) (Customer, error)
	// GetByID returns the record for a previously authenticated customer.
	GetByID(ctx context.Context, customerID string) (Customer, error)
}

// InMemoryDirectory is the mock directory keyed by normalized customer name.
type InMemoryDirectory struct {
	byName map[string]Customer
}

// NewMockDirectory seeds the directory with the two demo customers.
func NewMockDirectory() *InMemoryDirectory {
	directory := &InMemoryDirectory{byName: make(map[string]Customer)}
	for _, customer := range []Customer{
		{
			CustomerID:       "u-1001",
			Name:             "Jan Novak",
			RodneCisloSuffix: "1234",
			PhoneNumber:      AgentKnownPhoneNumber,
			Email:            "jan.novak@example.com",
			CurrentPlanMbps:  100,
		},
		{
			CustomerID:       "u-1002",
			Name:             "Petra Svobodova",
			RodneCisloSuffix: "5678",
			PhoneNumber:      AgentKnownPhoneNumber,
			Email:            "petra.svobodova@example.com",
			CurrentPlanMbps:  100,
		},
	} {
		directory.byName[NormalizeName(customer.Name)] = customer
	}
	return directory
}

// Lookup verifies all three credential fields against one record.
func (d *InMemoryDirectory) Lookup(ctx context.Context, name, suffix, phone string) (Customer, error) {
	if err := ctx.Err(); err != nil {
		return Customer{}, err
	}

	customer, ok := d.byName[NormalizeName(name)]
	if !ok {
		return Customer{}, ErrUnknownName
	}
	if customer.RodneCisloSuffix != DigitsOnly(suffix) {
		return Customer{}, ErrSuffixMismatch
	}
	if customer.PhoneNumber != DigitsOnly(phone) {
		return Customer{}, ErrPhoneMismatch
	}
	return customer, nil
}

// GetByID returns the record with the given customer id.
func (d *InMemoryDirectory) GetByID(ctx context.Context, customerID string) (Customer, error) {
	if err := ctx.Err(); err != nil {
		return Customer{}, err
	}

	for _, customer := range d.byName {
		if customer.CustomerID == customerID {
			return customer, nil
		}
	}
	return Customer{}, ErrUnknownCustomer
}

var _ UserDirectory = (*InMemoryDirectory)(nil)

// NormalizeName lowercases a name and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(value string) string {
	var builder strings.Builder
	for _, ch := range value {
		if ch >= '0' && ch <= '9' {
			builder.WriteRune(ch)
		}
	}
	return builder.String()
}
