package reference

//go:generate go run go.uber.org/mock/mockgen -source=./reference.go -destination=./mocks/reference_mock.go -package=mocks

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	bookingPrefix     = "BK-"
	transactionPrefix = "TXN-"

	bookingTokenLength     = 12
	transactionTokenLength = 16
	bookingDateLayout      = "20060102"
)

// Generator issues the human facing identifiers of bookings and payments.
type Generator interface {
	BookingReference(at time.Time) string
	TransactionID() string
}

type uuidGenerator struct{}

func New() Generator {
	return uuidGenerator{}
}

// BookingReference returns BK-<12 upper hex>-<YYYYMMDD>.
func (uuidGenerator) BookingReference(at time.Time) string {
	return bookingPrefix + token(bookingTokenLength) + "-" + at.Format(bookingDateLayout)
}

// TransactionID returns TXN-<16 upper hex>.
func (uuidGenerator) TransactionID() string {
	return transactionPrefix + token(transactionTokenLength)
}

func token(length int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	return strings.ToUpper(hex[:length])
}
