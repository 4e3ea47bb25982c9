// Package importer parses goal exports in CSV format for bulk import.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Column positions in the goal export CSV.
const (
	Title = iota
	Description
	TargetAmount
	Deadline
	Category
	Account
	LinkedAmount
)

// ParsedGoal is one line of a goal export.
type ParsedGoal struct {
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	Deadline     *types.Date
	Category     models.GoalCategory

	// AccountName is a glob pattern matched against the names of the
	// user's accounts to find the linked account.
	AccountName  string
	LinkedAmount *decimal.Decimal
}

// Parse parses a goal export CSV file.
//
// The expected columns are title, description, target amount, deadline,
// category, account and linked amount. The first line is the header and
// is skipped.
func Parse(f io.Reader) ([]ParsedGoal, error) {
	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	var parsed []ParsedGoal

	// Skip the first line
	_, err := reader.Read()
	if err == io.EOF {
		return []ParsedGoal{}, nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		if len(record) != 7 {
			return csvReadError(reader, errors.New("every line must have 7 fields"))
		}

		if strings.TrimSpace(record[Title]) == "" {
			return csvReadError(reader, errors.New("the title must be set"))
		}

		target, err := decimal.NewFromString(record[TargetAmount])
		if err != nil {
			return csvReadError(reader, errors.New("the target amount could not be parsed to a decimal"))
		}

		goal := ParsedGoal{
			Title:        record[Title],
			Description:  record[Description],
			TargetAmount: target,
			Category:     models.GoalCategory(record[Category]),
			AccountName:  record[Account],
		}

		if record[Deadline] != "" {
			deadline, err := types.ParseDate(record[Deadline])
			if err != nil {
				return csvReadError(reader, fmt.Errorf("could not parse deadline: %w", err))
			}

			goal.Deadline = &deadline
		}

		if record[LinkedAmount] != "" {
			amount, err := decimal.NewFromString(record[LinkedAmount])
			if err != nil {
				return csvReadError(reader, errors.New("the linked amount could not be parsed to a decimal"))
			}

			goal.LinkedAmount = &amount
		}

		if goal.LinkedAmount != nil && goal.AccountName == "" {
			return csvReadError(reader, errors.New("a linked amount requires an account"))
		}

		parsed = append(parsed, goal)
	}

	return parsed, nil
}

// csvReadError returns an error including the line of the input the
// error occurred in.
func csvReadError(r *csv.Reader, err error) ([]ParsedGoal, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(1)

	return []ParsedGoal{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
