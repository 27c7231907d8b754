package certificate

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pot-code/coursecert/internal/domain"
	"github.com/pot-code/coursecert/internal/infrastructure/driver"
)

type CertificateSQL struct {
	Conn driver.ITransactionalDB
}

var _ CertificateRepository = &CertificateSQL{}

func NewCertificateRepository(Conn driver.ITransactionalDB) *CertificateSQL {
	return &CertificateSQL{Conn}
}

func (repo *CertificateSQL) FindCertificate(ctx context.Context, userID, courseID string) (*Certificate, error) {
	return repo.findOne(ctx, `
SELECT id, user_id, course_id, issued_at
FROM certificates
WHERE user_id = $1 AND course_id = $2`, userID, courseID)
}

func (repo *CertificateSQL) FindCertificateByID(ctx context.Context, id string) (*Certificate, error) {
	return repo.findOne(ctx, `
SELECT id, user_id, course_id, issued_at
FROM certificates
WHERE id = $1`, id)
}

func (repo *CertificateSQL) findOne(ctx context.Context, query string, args ...interface{}) (*Certificate, error) {
	certs, err := repo.query(ctx, query, args...)
	if err != nil || len(certs) == 0 {
		return nil, err
	}
	return certs[0], nil
}

// InsertCertificate losing a race against another claim is not an error, the caller re-reads the winner
func (repo *CertificateSQL) InsertCertificate(ctx context.Context, cert *Certificate) error {
	query := `
INSERT INTO certificates (id, user_id, course_id, issued_at)
VALUES ($1, $2, $3, $4)`
	if repo.Conn.Dialect() == driver.DialectPostgres {
		query += " ON CONFLICT (user_id, course_id) DO NOTHING"
	}

	_, err := repo.Conn.ExecContext(ctx, query, cert.ID, cert.UserID, cert.CourseID, cert.IssuedAt)
	if err != nil && driver.IsUniqueViolation(err) {
		return nil
	}
	return domain.Unavailable(errors.Wrap(err, "insert certificate"))
}

func (repo *CertificateSQL) ListCertificates(ctx context.Context, userID string) ([]*Certificate, error) {
	return repo.query(ctx, `
SELECT id, user_id, course_id, issued_at
FROM certificates
WHERE user_id = $1
ORDER BY issued_at DESC`, userID)
}

func (repo *CertificateSQL) query(ctx context.Context, query string, args ...interface{}) ([]*Certificate, error) {
	rows, err := repo.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(errors.Wrap(err, "query certificates"))
	}
	defer rows.Close()

	var result []*Certificate
	for rows.Next() {
		item := new(Certificate)
		if err := rows.Scan(&item.ID, &item.UserID, &item.CourseID, &item.IssuedAt); err != nil {
			return nil, errors.Wrap(err, "scan certificate")
		}
		result = append(result, item)
	}
	return result, domain.Unavailable(rows.Err())
}
