package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingDirection selects which side of the open documents is aged.
type AgingDirection string

const (
	AgingPayable    AgingDirection = "payable"    // vendor bills
	AgingReceivable AgingDirection = "receivable" // customer invoices
)

// Valid reports whether d is a known direction.
func (d AgingDirection) Valid() bool {
	return d == AgingPayable || d == AgingReceivable
}

// AgingBucket labels a days-past-due band.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "current"
	Bucket1To30   AgingBucket = "1-30"
	Bucket31To60  AgingBucket = "31-60"
	Bucket61To90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "90+"
)

// AgingBuckets lists every bucket in ascending age.
var AgingBuckets = []AgingBucket{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}

// Party is a customer or vendor.
type Party struct {
	PartyID string `json:"partyID"`
	Name    string `json:"name"`
}

// OpenDocument is an invoice or bill with its settlement progress.
type OpenDocument struct {
	DocumentID     string          `json:"documentID"`
	DocumentNumber string          `json:"documentNumber"`
	PartyID        string          `json:"partyID"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Applied        decimal.Decimal `json:"applied"`
}

// AgingItem is one open document placed in its bucket.
type AgingItem struct {
	DocumentID     string          `json:"documentID"`
	DocumentNumber string          `json:"documentNumber"`
	PartyID        string          `json:"partyID"`
	PartyName      string          `json:"partyName"`
	IssueDate      time.Time       `json:"date"`
	DueDate        time.Time       `json:"dueDate"`
	DaysPastDue    int             `json:"daysPastDue"`
	Bucket         AgingBucket     `json:"bucket"`
	Amount         decimal.Decimal `json:"amount"`
	Applied        decimal.Decimal `json:"applied"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// AgingSummary holds the outstanding total of every bucket.
type AgingSummary struct {
	AsOf      time.Time                       `json:"asOf"`
	Direction AgingDirection                  `json:"direction"`
	Buckets   map[AgingBucket]decimal.Decimal `json:"buckets"`
	Total     decimal.Decimal                 `json:"total"`
}

// AgingDetails lists the open documents, oldest first.
type AgingDetails struct {
	AsOf      time.Time       `json:"asOf"`
	Direction AgingDirection  `json:"direction"`
	Items     []AgingItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
}
