// Package docstore keeps contracts, recurring expenses and the ledger in
// Firestore. Amounts are stored as decimal strings and dates as YYYY-MM-DD
// strings, so documents written by other clients never pass through a time
// zone.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
)

const (
	contractsCollection    = "contracts"
	expensesCollection     = "recurringExpenses"
	transactionsCollection = "transactions"
	ledgerKeysCollection   = "ledgerKeys"
	rulesCollection        = "categoryRules"
)

type Store struct {
	client *firestore.Client
}

// Open connects to the Firestore database of projectID. credentialsFile is
// optional; without it the default application credentials are used.
func Open(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return New(client), nil
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// parseDate reads a stored date. A malformed value yields the zero date,
// which the materializer reports as a malformed agreement.
func parseDate(collection, id, raw string) civil.Date {
	d, err := calendar.ParseDate(raw)
	if err != nil {
		slog.Warn("malformed date in document", "collection", collection, "id", id, "error", err)
		return civil.Date{}
	}

	return d
}

func parseAmount(collection, id, raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		slog.Warn("malformed amount in document", "collection", collection, "id", id, "error", err)
		return decimal.Zero
	}

	return d
}

func formatDate(d civil.Date) string {
	return d.String()
}

func sortByStart[T any](items []T, start func(T) civil.Date, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := start(items[i]), start(items[j])
		if a != b {
			return a.Before(b)
		}

		return id(items[i]) < id(items[j])
	})
}
