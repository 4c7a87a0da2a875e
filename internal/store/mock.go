package store

import (
	"context"

	"fjacquet/cash-forecast/internal/models"
)

// MockLoader is an in-memory Loader for testing.
type MockLoader struct {
	Budget       []models.BudgetEntry
	Transactions []models.ActualTransaction
	Accounts     []models.CashAccount

	// Error flags for testing error conditions
	LoadBudgetError       error
	LoadTransactionsError error
	LoadAccountsError     error
}

// LoadBudget returns a copy of the mock budget entries.
func (m *MockLoader) LoadBudget() ([]models.BudgetEntry, error) {
	if m.LoadBudgetError != nil {
		return nil, m.LoadBudgetError
	}
	return append([]models.BudgetEntry{}, m.Budget...), nil
}

// LoadTransactions returns a copy of the mock transactions.
func (m *MockLoader) LoadTransactions() ([]models.ActualTransaction, error) {
	if m.LoadTransactionsError != nil {
		return nil, m.LoadTransactionsError
	}
	return append([]models.ActualTransaction{}, m.Transactions...), nil
}

// LoadAccounts returns a copy of the mock accounts.
func (m *MockLoader) LoadAccounts() ([]models.CashAccount, error) {
	if m.LoadAccountsError != nil {
		return nil, m.LoadAccountsError
	}
	return append([]models.CashAccount{}, m.Accounts...), nil
}

// LoadDataset returns the three mock collections, failing on the first
// configured error.
func (m *MockLoader) LoadDataset(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	budget, err := m.LoadBudget()
	if err != nil {
		return nil, err
	}
	transactions, err := m.LoadTransactions()
	if err != nil {
		return nil, err
	}
	accounts, err := m.LoadAccounts()
	if err != nil {
		return nil, err
	}
	return &Dataset{Budget: budget, Transactions: transactions, Accounts: accounts}, nil
}
