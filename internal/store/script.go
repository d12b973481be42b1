package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ExecScript runs the SQL statements read from r against the records database. A statement ends on
// the line that contains a semicolon; comment lines starting with -- are skipped. It returns the
// number of statements executed.
func (s *Store) ExecScript(ctx context.Context, r io.Reader) (int, error) {
	return execScript(ctx, s.db, r)
}

func execScript(ctx context.Context, db *sqlx.DB, r io.Reader) (int, error) {
	fileScanner := bufio.NewScanner(r)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	count := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			if _, err := db.ExecContext(ctx, sql); err != nil {
				return count, fmt.Errorf("statement %d failed: %w", count+1, err)
			}
			count++
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return count, err
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		return count, fmt.Errorf("unterminated statement: %s", rest)
	}
	return count, nil
}
