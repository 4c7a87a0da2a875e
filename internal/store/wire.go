package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/forecasterror"
	"fjacquet/cash-forecast/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// wireText keeps a scalar as text so that JSON numbers, numeric IDs and
// formatted amounts such as "1'234.50" all survive decoding.
type wireText string

func (a *wireText) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		s = text
	}
	*a = wireText(s)
	return nil
}

func (a *wireText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*a = wireText(node.Value)
	return nil
}

// budgetRecord is a budget entry as served by the REST data source.
type budgetRecord struct {
	ID             wireText `json:"id" yaml:"id"`
	Label          string   `json:"label" yaml:"label"`
	Amount         wireText `json:"amount" yaml:"amount"`
	Type           string   `json:"type" yaml:"type"`
	Category       string   `json:"category" yaml:"category"`
	ThirdPartyName string   `json:"third_party_name" yaml:"third_party_name"`
	FrequencyID    int      `json:"frequency_id" yaml:"frequency_id"`
	Frequency      string   `json:"frequency" yaml:"frequency"`
	StartDate      string   `json:"start_date" yaml:"start_date"`
	EndDate        string   `json:"end_date" yaml:"end_date"`
	IsIndefinite   bool     `json:"is_indefinite" yaml:"is_indefinite"`
}

type paymentRecord struct {
	PaymentDate    string   `json:"payment_date" yaml:"payment_date"`
	PaidAmount     wireText `json:"paid_amount" yaml:"paid_amount"`
	IsFinalPayment bool     `json:"is_final_payment" yaml:"is_final_payment"`
}

// transactionRecord is an actual transaction as served by the REST data
// source.
type transactionRecord struct {
	ID             wireText        `json:"id" yaml:"id"`
	Label          string          `json:"label" yaml:"label"`
	Amount         wireText        `json:"amount" yaml:"amount"`
	Type           string          `json:"type" yaml:"type"`
	Status         string          `json:"status" yaml:"status"`
	Category       string          `json:"category" yaml:"category"`
	ThirdPartyName string          `json:"third_party_name" yaml:"third_party_name"`
	CollectionDate string          `json:"collection_date" yaml:"collection_date"`
	Payments       []paymentRecord `json:"payments" yaml:"payments"`
}

// accountRow is one line of the accounts CSV file.
type accountRow struct {
	ID                 string `csv:"id"`
	Name               string `csv:"name"`
	InitialBalance     string `csv:"initial_balance"`
	InitialBalanceDate string `csv:"initial_balance_date"`
	IsClosed           string `csv:"is_closed"`
}

// envelope is the paginated list shape some endpoints return.
type envelope[T any] struct {
	Results []T `json:"results" yaml:"results"`
}

// recordID returns id, or a UUID derived from the file name and the record
// position so that the same file always yields the same IDs.
func recordID(id, source string, index int) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", source, index))).String()
}

func parseAmountField(source, field string, value wireText) (decimal.Decimal, error) {
	amount, err := models.ParseAmount(string(value))
	if err != nil {
		return decimal.Zero, &forecasterror.ParseError{Source: source, Field: field, Value: string(value), Err: err}
	}
	return amount, nil
}

func parseDateField(source, field, value string) (time.Time, error) {
	date, err := dateutils.ParseDate(value)
	if err != nil {
		return time.Time{}, &forecasterror.ParseError{Source: source, Field: field, Value: value, Err: err}
	}
	return date, nil
}

func mapBudgetRecord(source string, index int, rec budgetRecord) (models.BudgetEntry, error) {
	entry := models.BudgetEntry{
		ID:         recordID(string(rec.ID), source, index),
		Label:      strings.TrimSpace(rec.Label),
		Category:   strings.TrimSpace(rec.Category),
		ThirdParty: strings.TrimSpace(rec.ThirdPartyName),
	}
	source = fmt.Sprintf("%s[%s]", source, entry.ID)

	var err error
	if entry.Amount, err = parseAmountField(source, "amount", rec.Amount); err != nil {
		return entry, err
	}

	direction, err := models.ParseDirection(rec.Type)
	if err != nil {
		return entry, &forecasterror.ParseError{Source: source, Field: "type", Value: rec.Type, Err: err}
	}
	entry.Direction = direction.Flow()

	switch {
	case rec.FrequencyID != 0:
		entry.Rule.Frequency, err = models.FrequencyFromID(rec.FrequencyID)
		if err != nil {
			return entry, &forecasterror.ParseError{Source: source, Field: "frequency_id", Value: fmt.Sprint(rec.FrequencyID), Err: err}
		}
	case rec.Frequency != "":
		entry.Rule.Frequency, err = models.ParseFrequency(rec.Frequency)
		if err != nil {
			return entry, &forecasterror.ParseError{Source: source, Field: "frequency", Value: rec.Frequency, Err: err}
		}
	default:
		return entry, &forecasterror.ValidationError{Source: source, Reason: "frequency_id is required"}
	}

	if entry.Rule.StartDate, err = parseDateField(source, "start_date", rec.StartDate); err != nil {
		return entry, err
	}
	if strings.TrimSpace(rec.EndDate) != "" {
		if entry.Rule.EndDate, err = parseDateField(source, "end_date", rec.EndDate); err != nil {
			return entry, err
		}
	}
	entry.Rule.Indefinite = rec.IsIndefinite

	if err := entry.Rule.Validate(); err != nil {
		return entry, &forecasterror.ValidationError{Source: source, Reason: err.Error()}
	}
	return entry, nil
}

func mapTransactionRecord(source string, index int, rec transactionRecord) (models.ActualTransaction, error) {
	tx := models.ActualTransaction{
		ID:         recordID(string(rec.ID), source, index),
		Label:      strings.TrimSpace(rec.Label),
		Category:   strings.TrimSpace(rec.Category),
		ThirdParty: strings.TrimSpace(rec.ThirdPartyName),
		Status:     models.StatusPending,
	}
	source = fmt.Sprintf("%s[%s]", source, tx.ID)

	var err error
	if tx.Amount, err = parseAmountField(source, "amount", rec.Amount); err != nil {
		return tx, err
	}

	direction, err := models.ParseDirection(rec.Type)
	if err != nil {
		return tx, &forecasterror.ParseError{Source: source, Field: "type", Value: rec.Type, Err: err}
	}
	tx.Direction = models.DirectionPayable
	if direction.IsInflow() {
		tx.Direction = models.DirectionReceivable
	}

	if strings.TrimSpace(rec.Status) != "" {
		if tx.Status, err = models.ParseStatus(rec.Status); err != nil {
			return tx, &forecasterror.ParseError{Source: source, Field: "status", Value: rec.Status, Err: err}
		}
	}

	if tx.Date, err = parseDateField(source, "collection_date", rec.CollectionDate); err != nil {
		return tx, err
	}

	for i, p := range rec.Payments {
		field := fmt.Sprintf("payments[%d]", i)
		payment := models.Payment{IsFinalPayment: p.IsFinalPayment}
		if payment.PaymentDate, err = parseDateField(source, field+".payment_date", p.PaymentDate); err != nil {
			return tx, err
		}
		if payment.PaidAmount, err = parseAmountField(source, field+".paid_amount", p.PaidAmount); err != nil {
			return tx, err
		}
		if payment.PaidAmount.IsNegative() {
			return tx, &forecasterror.ValidationError{Source: source, Reason: field + " has a negative paid_amount"}
		}
		tx.Payments = append(tx.Payments, payment)
	}

	return tx, nil
}

func mapAccountRow(source string, index int, row accountRow) (models.CashAccount, error) {
	account := models.CashAccount{
		ID:   recordID(row.ID, source, index),
		Name: strings.TrimSpace(row.Name),
	}
	source = fmt.Sprintf("%s[%s]", source, account.ID)

	var err error
	if account.InitialBalance, err = parseAmountField(source, "initial_balance", wireText(row.InitialBalance)); err != nil {
		return account, err
	}
	if strings.TrimSpace(row.InitialBalanceDate) != "" {
		if account.InitialBalanceDate, err = parseDateField(source, "initial_balance_date", row.InitialBalanceDate); err != nil {
			return account, err
		}
	}
	if account.IsClosed, err = parseFlag(row.IsClosed); err != nil {
		return account, &forecasterror.ParseError{Source: source, Field: "is_closed", Value: row.IsClosed, Err: err}
	}
	return account, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
