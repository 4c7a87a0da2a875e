// Package store loads the budget, transaction and account records a
// projection works on, and maps them into domain types.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Default file names inside the data directory.
const (
	DefaultBudgetFile       = "budget.yaml"
	DefaultTransactionsFile = "transactions.yaml"
	DefaultAccountsFile     = "accounts.csv"
)

// Loader loads the records of a dataset.
type Loader interface {
	LoadBudget() ([]models.BudgetEntry, error)
	LoadTransactions() ([]models.ActualTransaction, error)
	LoadAccounts() ([]models.CashAccount, error)
	LoadDataset(ctx context.Context) (*Dataset, error)
}

// Dataset groups everything a projection needs.
type Dataset struct {
	Budget       []models.BudgetEntry
	Transactions []models.ActualTransaction
	Accounts     []models.CashAccount
}

// DatasetStore reads dataset files from disk. Budget and transaction files
// are JSON or YAML depending on their extension; accounts are CSV.
type DatasetStore struct {
	Directory        string
	BudgetFile       string
	TransactionsFile string
	AccountsFile     string

	logger logging.Logger
}

// NewDatasetStore creates a store reading from directory. Empty file names
// fall back to the defaults.
func NewDatasetStore(directory, budgetFile, transactionsFile, accountsFile string, logger logging.Logger) *DatasetStore {
	s := &DatasetStore{
		Directory:        directory,
		BudgetFile:       budgetFile,
		TransactionsFile: transactionsFile,
		AccountsFile:     accountsFile,
		logger:           logging.OrNop(logger),
	}
	if s.BudgetFile == "" {
		s.BudgetFile = DefaultBudgetFile
	}
	if s.TransactionsFile == "" {
		s.TransactionsFile = DefaultTransactionsFile
	}
	if s.AccountsFile == "" {
		s.AccountsFile = DefaultAccountsFile
	}
	return s
}

// FindDataFile looks for filename in the data directory, the current
// directory, ./data and ~/.config/cash-forecast, in that order.
func (s *DatasetStore) FindDataFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	var locations []string
	if s.Directory != "" {
		locations = append(locations, filepath.Join(s.Directory, filename))
	}
	locations = append(locations, filename, filepath.Join("data", filename))

	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "cash-forecast", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadBudget loads and maps the budget entries. A missing file yields no
// entries.
func (s *DatasetStore) LoadBudget() ([]models.BudgetEntry, error) {
	path, records, err := readRecords[budgetRecord](s, s.BudgetFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return []models.BudgetEntry{}, nil
	}

	entries := make([]models.BudgetEntry, 0, len(records))
	for i, rec := range records {
		entry, err := mapBudgetRecord(filepath.Base(path), i, rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	s.logger.Debug("Loaded budget entries",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(entries)))
	return entries, nil
}

// LoadTransactions loads and maps the actual transactions. A missing file
// yields no transactions.
func (s *DatasetStore) LoadTransactions() ([]models.ActualTransaction, error) {
	path, records, err := readRecords[transactionRecord](s, s.TransactionsFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return []models.ActualTransaction{}, nil
	}

	transactions := make([]models.ActualTransaction, 0, len(records))
	for i, rec := range records {
		tx, err := mapTransactionRecord(filepath.Base(path), i, rec)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	s.logger.Debug("Loaded actual transactions",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(transactions)))
	return transactions, nil
}

// LoadAccounts loads the cash accounts CSV. A missing file yields no
// accounts.
func (s *DatasetStore) LoadAccounts() ([]models.CashAccount, error) {
	path, err := s.FindDataFile(s.AccountsFile)
	if err != nil {
		s.logger.Warn("Accounts file not found", logging.F(logging.FieldFile, s.AccountsFile))
		return []models.CashAccount{}, nil
	}

	file, err := os.Open(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error opening accounts file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []accountRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []models.CashAccount{}, nil
		}
		return nil, fmt.Errorf("error parsing accounts file: %w", err)
	}

	accounts := make([]models.CashAccount, 0, len(rows))
	for i, row := range rows {
		account, err := mapAccountRow(filepath.Base(path), i, row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	s.logger.Debug("Loaded cash accounts",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(accounts)))
	return accounts, nil
}

// LoadDataset loads the three files concurrently. The first failure cancels
// the others.
func (s *DatasetStore) LoadDataset(ctx context.Context) (*Dataset, error) {
	g, ctx := errgroup.WithContext(ctx)
	ds := &Dataset{}

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		budget, err := s.LoadBudget()
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}
		ds.Budget = budget
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		transactions, err := s.LoadTransactions()
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		ds.Transactions = transactions
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		accounts, err := s.LoadAccounts()
		if err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		ds.Accounts = accounts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Loaded dataset",
		logging.F("budget_entries", len(ds.Budget)),
		logging.F("transactions", len(ds.Transactions)),
		logging.F("accounts", len(ds.Accounts)))
	return ds, nil
}

// readRecords resolves filename and decodes its records. It returns an empty
// path when the file does not exist.
func readRecords[T any](s *DatasetStore, filename string) (string, []T, error) {
	path, err := s.FindDataFile(filename)
	if err != nil {
		s.logger.Warn("Data file not found", logging.F(logging.FieldFile, filename))
		return "", nil, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return "", nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	records, err := decodeRecords[T](path, data)
	if err != nil {
		return "", nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return path, records, nil
}

// decodeRecords accepts either a bare list or a {"results": [...]} envelope.
func decodeRecords[T any](path string, data []byte) ([]T, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}

	var list []T
	listErr := unmarshal(data, &list)
	if listErr == nil {
		return list, nil
	}

	var wrapped envelope[T]
	if err := unmarshal(data, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return nil, listErr
}
