package memory

import (
	"context"
	"sort"

	"github.com/pot-code/coursecert/internal/certificate"
)

type certificateRepository struct {
	db *certificateTable
}

// NewCertificateRepository certificate.CertificateRepository over db
func NewCertificateRepository(db *DB) certificate.CertificateRepository {
	return &certificateRepository{db: db.certificates}
}

func (r *certificateRepository) FindCertificate(ctx context.Context, userID, courseID string) (*certificate.Certificate, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if c, ok := r.db.t[pairKey{userID, courseID}]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *certificateRepository) FindCertificateByID(ctx context.Context, id string) (*certificate.Certificate, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, c := range r.db.t {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// InsertCertificate first writer wins, later inserts for the same pair are dropped
func (r *certificateRepository) InsertCertificate(ctx context.Context, cert *certificate.Certificate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := pairKey{cert.UserID, cert.CourseID}
	if _, ok := r.db.t[key]; ok {
		return nil
	}
	cp := *cert
	r.db.t[key] = &cp
	return nil
}

func (r *certificateRepository) ListCertificates(ctx context.Context, userID string) ([]*certificate.Certificate, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	var res []*certificate.Certificate
	for k, c := range r.db.t {
		if k.userID == userID {
			cp := *c
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].IssuedAt.After(res[j].IssuedAt) })
	return res, nil
}
