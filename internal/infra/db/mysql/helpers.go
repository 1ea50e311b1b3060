package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

const errDuplicateEntry = 1062

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// isDuplicate reports a primary key violation.
func isDuplicate(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// notFound maps sql.ErrNoRows to the given domain error.
func notFound(err, domainErr error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domainErr
	}
	return err
}

func encodeAnomalies(as []analysis.Anomaly) (string, error) {
	if as == nil {
		as = []analysis.Anomaly{}
	}
	b, err := json.Marshal(as)
	return string(b), err
}

func decodeAnomalies(s string) ([]analysis.Anomaly, error) {
	out := []analysis.Anomaly{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(s), &out)
	return out, err
}

func encodeActions(as []string) (string, error) {
	if as == nil {
		as = []string{}
	}
	b, err := json.Marshal(as)
	return string(b), err
}

func decodeActions(s string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(s), &out)
	return out, err
}

func orderSQL(o analysis.Order) string {
	if o == analysis.OldestFirst {
		return "ASC"
	}
	return "DESC"
}
