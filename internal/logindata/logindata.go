// Package logindata reads and writes the spreadsheet that drives the data-driven shop
// login suite.
package logindata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet holding login rows.
const DefaultSheet = "Sheet1"

// Header is the first row of the sheet. Data starts on row 2.
var Header = []string{"Username", "Password", "Expected"}

// Expectation is the expected outcome of one login row.
type Expectation string

const (
	ExpectPass Expectation = "Pass"
	ExpectFail Expectation = "Fail"
)

// ErrInvalidRow marks a row that cannot be used.
var ErrInvalidRow = errors.New("invalid login data row")

// LoginCase is one row of the sheet.
type LoginCase struct {
	Row      int
	Username string
	Password string
	Expect   Expectation
}

// Name is a subtest name for the row. The password is left out.
func (c LoginCase) Name() string {
	user := c.Username
	if user == "" {
		user = "<empty>"
	}
	return fmt.Sprintf("row %d %s expect %s", c.Row, user, c.Expect)
}

func parseExpectation(s string) (Expectation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass":
		return ExpectPass, true
	case "fail":
		return ExpectFail, true
	}
	return "", false
}

// LoadLoginCases reads rows 2.. of sheet. Fully blank rows are skipped; a row with an
// expectation other than Pass or Fail is an error.
func LoadLoginCases(path, sheet string) ([]LoginCase, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	var cases []LoginCase
	for i, row := range rows {
		if i == 0 {
			continue
		}
		cell := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}
		user, pass, exp := cell(0), cell(1), cell(2)
		if user == "" && pass == "" && exp == "" {
			continue
		}
		expect, ok := parseExpectation(exp)
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d: expected Pass or Fail, got %q", ErrInvalidRow, sheet, i+1, exp)
		}
		cases = append(cases, LoginCase{Row: i + 1, Username: user, Password: pass, Expect: expect})
	}
	return cases, nil
}

// WriteLoginCases writes a header and cases to a new workbook at path.
func WriteLoginCases(path, sheet string, cases []LoginCase) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := f.DeleteSheet(DefaultSheet); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, c := range cases {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []string{c.Username, c.Password, string(c.Expect)}
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// DefaultLoginCases are the rows seeded for the demo shop's published accounts.
func DefaultLoginCases() []LoginCase {
	return []LoginCase{
		{Username: "standard_user", Password: "secret_sauce", Expect: ExpectPass},
		{Username: "locked_out_user", Password: "secret_sauce", Expect: ExpectFail},
		{Username: "standard_user", Password: "wrong_password", Expect: ExpectFail},
		{Username: "performance_glitch_user", Password: "secret_sauce", Expect: ExpectPass},
		{Username: "", Password: "", Expect: ExpectFail},
	}
}
