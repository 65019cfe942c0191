package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"highspirit-app-go/internal/domain/boxing"
	"highspirit-app-go/internal/domain/membership"
	"highspirit-app-go/pkg/logger"
)

// Customer sheet columns, 1-indexed. Column 5 is not read.
const (
	customerColName     = 1
	customerColJoinDate = 2
	customerColPlan     = 3
	customerColDuration = 4
	customerColShift    = 6
	customerColRemarks  = 7
)

// Boxing sheet columns, 1-indexed.
const (
	boxingColName            = 1
	boxingColJoinDate        = 2
	boxingColGuardianName    = 3
	boxingColGuardianContact = 4
	boxingColPerMonthClass   = 5
	boxingColCash            = 6
	boxingColEsewa           = 7
	boxingColDue             = 8
	boxingColRemarks         = 9
)

type Service struct {
	repo  Repository
	today func() time.Time
	log   logger.Logger
}

func NewService(repo Repository, today func() time.Time, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, today: today, log: log}
}

func (s *Service) Import(ctx context.Context, kind Kind, sheets []Sheet) (*Result, error) {
	switch kind {
	case KindCustomers:
		return s.ImportCustomers(ctx, sheets)
	case KindBoxing:
		return s.ImportBoxing(ctx, sheets)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// ImportCustomers creates a customer and an initial active membership for
// every row that is not already on file. Rows are committed one by one so a
// failing row leaves earlier rows in place.
func (s *Service) ImportCustomers(ctx context.Context, sheets []Sheet) (*Result, error) {
	return s.run(ctx, KindCustomers, sheets, s.importCustomerRow)
}

// ImportBoxing creates a boxing member for every row that is not already on file.
func (s *Service) ImportBoxing(ctx context.Context, sheets []Sheet) (*Result, error) {
	return s.run(ctx, KindBoxing, sheets, s.importBoxingRow)
}

type rowImporter func(ctx context.Context, r *rowContext) (rowOutcome, error)

type rowContext struct {
	sheet  string
	number int
	cells  []string
	today  time.Time
	result *Result
}

func (r *rowContext) warn(reason string) {
	r.result.Warnings = append(r.result.Warnings, Warning{Sheet: r.sheet, Row: r.number, Reason: reason})
}

func (s *Service) run(ctx context.Context, kind Kind, sheets []Sheet, importRow rowImporter) (*Result, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	log := s.log.With("kind", string(kind))
	today := s.today()
	result := &Result{Kind: kind, Warnings: []Warning{}}

	for _, sheet := range sheets {
		result.Sheets++

		for index, cells := range sheet.Rows {
			if index == 0 {
				continue
			}
			if err := ctx.Err(); err != nil {
				result.Interrupted = true
				s.report(log, result)
				return result, err
			}

			result.Rows++
			row := &rowContext{
				sheet:  sheet.Name,
				number: index + 1,
				cells:  cells,
				today:  today,
				result: result,
			}

			if cell(cells, 1) == "" {
				result.Blank++
				continue
			}

			outcome, err := importRow(ctx, row)
			if err != nil {
				result.Failed++
				row.warn("not stored: " + err.Error())
				log.InternalError("importer: row failed", err, "sheet", sheet.Name, "row", row.number)
				continue
			}

			switch outcome {
			case outcomeImported:
				result.Imported++
			case outcomeDuplicate:
				result.Skipped++
			}
		}
	}

	s.report(log, result)
	return result, nil
}

// report logs the warnings and the counters. Rows stored before an
// interruption stay committed, so the counters are logged either way.
func (s *Service) report(log logger.Logger, result *Result) {
	for _, warning := range result.Warnings {
		log.Warn("importer: row warning", "sheet", warning.Sheet, "row", warning.Row, "reason", warning.Reason)
	}

	args := []any{
		"sheets", result.Sheets,
		"rows", result.Rows,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"blank", result.Blank,
		"failed", result.Failed,
	}
	if result.Interrupted {
		log.Warn("importer: interrupted", args...)
		return
	}
	log.Info("importer: finished", args...)
}

func (s *Service) importCustomerRow(ctx context.Context, row *rowContext) (rowOutcome, error) {
	fullName := cell(row.cells, customerColName)
	joinDate := row.joinDate(customerColJoinDate)

	duration, ok := parseAmount(cell(row.cells, customerColDuration), DefaultDuration)
	if !ok || duration < 1 {
		row.warn(fmt.Sprintf("duration %q replaced by %d", cell(row.cells, customerColDuration), DefaultDuration))
		duration = DefaultDuration
	}

	customer := membership.Customer{
		ID:         uuid.NewString(),
		FullName:   fullName,
		Phone:      DefaultPhone,
		Address:    DefaultAddress,
		Gender:     DefaultGender,
		BloodGroup: DefaultBloodGroup,
		Height:     DefaultHeight,
		Shift:      textOr(cell(row.cells, customerColShift), DefaultShift),
		Remarks:    cell(row.cells, customerColRemarks),
		JoinDate:   joinDate,
	}
	initial := membership.Membership{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		PlanName:   cell(row.cells, customerColPlan),
		PaidPrice:  0,
		StartDate:  joinDate,
		Duration:   duration,
		IsActive:   true,
	}

	outcome := outcomeImported
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.CustomerExists(ctx, fullName, joinDate)
		if err != nil {
			return err
		}
		if exists {
			outcome = outcomeDuplicate
			return nil
		}
		return tx.CreateCustomer(ctx, &customer, &initial)
	})
	return outcome, err
}

func (s *Service) importBoxingRow(ctx context.Context, row *rowContext) (rowOutcome, error) {
	member := boxing.Member{
		ID:              uuid.NewString(),
		Name:            cell(row.cells, boxingColName),
		JoinDate:        row.joinDate(boxingColJoinDate),
		GuardianName:    cell(row.cells, boxingColGuardianName),
		GuardianContact: cell(row.cells, boxingColGuardianContact),
		PerMonthClass:   textOr(cell(row.cells, boxingColPerMonthClass), DefaultPerMonthClass),
		CashAmount:      row.amount(boxingColCash, "cash"),
		EsewaAmount:     row.amount(boxingColEsewa, "esewa"),
		DueAmount:       row.amount(boxingColDue, "due"),
		Remarks:         cell(row.cells, boxingColRemarks),
	}
	member.Price = member.TotalPaid()

	outcome := outcomeImported
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.BoxingMemberExists(ctx, member.Name, member.GuardianContact, member.JoinDate)
		if err != nil {
			return err
		}
		if exists {
			outcome = outcomeDuplicate
			return nil
		}
		return tx.CreateBoxingMember(ctx, &member)
	})
	return outcome, err
}

func (r *rowContext) joinDate(column int) time.Time {
	raw := cell(r.cells, column)
	if parsed, ok := ParseDate(raw); ok {
		return parsed
	}
	r.warn(fmt.Sprintf("join date %q unreadable, using today", raw))
	return r.today
}

func (r *rowContext) amount(column int, field string) int {
	raw := cell(r.cells, column)
	value, ok := parseAmount(raw, 0)
	if !ok {
		r.warn(fmt.Sprintf("%s %q replaced by 0", field, raw))
	}
	return value
}
