package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/guttosm/equifolio/internal/domain/models"
)

const notAvailable = "N/A"

func money(v null.Float) string {
	if !v.Valid {
		return notAvailable
	}
	return fmt.Sprintf("$%.2f", v.Float64)
}

func decimals(v null.Float, places int) string {
	if !v.Valid {
		return notAvailable
	}
	return strconv.FormatFloat(v.Float64, 'f', places, 64)
}

// plain renders v without trailing zeros.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// scaled renders a statement figure in billions or millions.
func scaled(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return notAvailable
	}
	switch a := math.Abs(*v); {
	case a >= 1e9:
		return fmt.Sprintf("$%.2fB", *v/1e9)
	case a >= 1e6:
		return fmt.Sprintf("$%.2fM", *v/1e6)
	}
	return fmt.Sprintf("$%.2f", *v)
}

// maxStatementPeriods is how many fiscal periods are shown to the model.
const maxStatementPeriods = 2

// statementTable renders a statement as aligned text with at most
// maxStatementPeriods columns.
func statementTable(st *models.FinancialStatement) string {
	if st == nil || len(st.Rows) == 0 || len(st.Periods) == 0 {
		return "No data available"
	}
	cols := min(len(st.Periods), maxStatementPeriods)

	width := 0
	for _, r := range st.Rows {
		width = max(width, len(r.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", width, "")
	for _, p := range st.Periods[:cols] {
		fmt.Fprintf(&b, "  %14s", p)
	}
	for _, r := range st.Rows {
		fmt.Fprintf(&b, "\n%-*s", width, r.Label)
		for i := 0; i < cols; i++ {
			var v *float64
			if i < len(r.Values) {
				v = r.Values[i]
			}
			fmt.Fprintf(&b, "  %14s", scaled(v))
		}
	}
	return b.String()
}

// correlationTable renders the matrix with ticker headers.
func correlationTable(m models.CorrelationMatrix) string {
	if len(m.Tickers) == 0 {
		return "No data available"
	}
	width := 0
	for _, t := range m.Tickers {
		width = max(width, len(t))
	}
	width = max(width, 6)

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", width, "")
	for _, t := range m.Tickers {
		fmt.Fprintf(&b, "  %*s", width, t)
	}
	for i, t := range m.Tickers {
		fmt.Fprintf(&b, "\n%-*s", width, t)
		for j := range m.Tickers {
			fmt.Fprintf(&b, "  %*s", width, decimals(m.Cells[i][j], 2))
		}
	}
	return b.String()
}
