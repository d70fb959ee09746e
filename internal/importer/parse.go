package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
)

var (
	ErrNoHeader    = errors.New("no header row found")
	ErrUnknownKind = errors.New("unknown import kind")
)

// RowError reports a row that was skipped. Row is the 1-based line number in
// the uploaded file.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseMembers reads a member roster. Rows without a name are skipped and
// reported. Unparseable expected amounts become zero.
func ParseMembers(r io.Reader) ([]member.CreateParams, []RowError, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}

	cols, headerIdx, ok := detectHeader(&rosterProfile, rows)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected a name column", ErrNoHeader)
	}

	var (
		params  []member.CreateParams
		skipped []RowError
	)

	for _, rec := range rows[headerIdx+1:] {
		row, rowNum := rec.cells, rec.line

		if blank(row) {
			continue
		}

		name := cols.cell(row, fieldFullName)
		if name == "" {
			skipped = append(skipped, RowError{Row: rowNum, Err: errors.New("missing name")})
			continue
		}

		p := member.CreateParams{
			FullName:       name,
			Gender:         cols.cell(row, fieldGender),
			ContactNumber:  cols.cell(row, fieldContact),
			Email:          cols.cell(row, fieldEmail),
			Address:        cols.cell(row, fieldAddress),
			ExpectedAmount: money.NonNegative(money.Parse(cols.cell(row, fieldExpected))),
		}

		if s := cols.cell(row, fieldDateJoined); s != "" {
			if d, ok := parseDate(s); ok {
				p.DateJoined = &d
			}
		}

		if s := cols.cell(row, fieldPreference); s != "" {
			pref, ok := parsePreference(s)
			if !ok {
				skipped = append(skipped, RowError{Row: rowNum, Err: fmt.Errorf("unknown donation preference %q", s)})
				continue
			}

			p.DonationPreference = pref
		}

		params = append(params, p)
	}

	return params, skipped, nil
}

// ParseFunds reads a ledger of fund and donation records. A record with a
// status column value is a donation, anything else a fund.
func ParseFunds(r io.Reader) ([]fund.RecordParams, []RowError, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}

	cols, headerIdx, ok := detectHeader(&ledgerProfile, rows)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected member id, type and amount columns", ErrNoHeader)
	}

	var (
		params  []fund.RecordParams
		skipped []RowError
	)

	for _, rec := range rows[headerIdx+1:] {
		row, rowNum := rec.cells, rec.line

		if blank(row) {
			continue
		}

		p, err := parseFundRow(cols, row)
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Err: err})
			continue
		}

		params = append(params, p)
	}

	return params, skipped, nil
}

func parseFundRow(cols colIndex, row []string) (fund.RecordParams, error) {
	memberID := cols.cell(row, fieldMemberID)
	if memberID == "" {
		return fund.RecordParams{}, errors.New("missing member id")
	}

	typ, ok := parseType(cols.cell(row, fieldType))
	if !ok {
		return fund.RecordParams{}, fund.ErrInvalidType
	}

	amount := money.Parse(cols.cell(row, fieldAmount))
	if !amount.IsPositive() {
		return fund.RecordParams{}, fund.ErrInvalidAmount
	}

	p := fund.RecordParams{
		MemberID: memberID,
		Kind:     fund.KindFund,
		Type:     typ,
		Amount:   amount,
	}

	if s := cols.cell(row, fieldStatus); s != "" {
		status, ok := parseStatus(s)
		if !ok {
			return fund.RecordParams{}, fund.ErrInvalidStatus
		}

		p.Kind = fund.KindDonation
		p.Status = &status
	}

	if strings.EqualFold(cols.cell(row, fieldKind), string(fund.KindDonation)) && p.Status == nil {
		return fund.RecordParams{}, fund.ErrMissingStatus
	}

	if s := cols.cell(row, fieldDate); s != "" {
		d, ok := parseDate(s)
		if !ok {
			return fund.RecordParams{}, fmt.Errorf("bad date %q", s)
		}

		p.Date = &d
	}

	return p, nil
}

func parseType(s string) (fund.Type, bool) {
	for _, t := range fund.Types() {
		if normalize(s) == normalize(string(t)) {
			return t, true
		}
	}

	return "", false
}

func parseStatus(s string) (fund.Status, bool) {
	for _, st := range []fund.Status{fund.StatusPaid, fund.StatusPending} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}

	return "", false
}

func parsePreference(s string) (member.DonationPreference, bool) {
	for _, p := range []member.DonationPreference{
		member.PreferenceMonthly,
		member.PreferenceYearly,
		member.PreferenceOneTime,
		member.PreferenceNone,
	} {
		if normalize(s) == normalize(string(p)) {
			return p, true
		}
	}

	return "", false
}
