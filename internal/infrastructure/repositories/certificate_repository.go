package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/RUSLANBALTABAEV/telegram-bot-of-the-education-center/domain"
)

// CertificateRepositoryImpl implements domain.CertificateRepository using GORM
type CertificateRepositoryImpl struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *gorm.DB) domain.CertificateRepository {
	return &CertificateRepositoryImpl{db: db}
}

// Create implements domain.CertificateRepository
func (r *CertificateRepositoryImpl) Create(ctx context.Context, cert *domain.Certificate) error {
	dbCert := certificateToDB(cert)
	if err := r.db.WithContext(ctx).Create(dbCert).Error; err != nil {
		return err
	}
	cert.ID = dbCert.ID
	return nil
}

// ListByUser implements domain.CertificateRepository
func (r *CertificateRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]domain.Certificate, error) {
	var dbCerts []DBCertificate
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dbCerts).Error; err != nil {
		return nil, err
	}
	return toDomainCertificates(dbCerts), nil
}

// List implements domain.CertificateRepository
func (r *CertificateRepositoryImpl) List(ctx context.Context) ([]domain.Certificate, error) {
	var dbCerts []DBCertificate
	if err := r.db.WithContext(ctx).Order("id").Find(&dbCerts).Error; err != nil {
		return nil, err
	}
	return toDomainCertificates(dbCerts), nil
}

func toDomainCertificates(dbCerts []DBCertificate) []domain.Certificate {
	certs := make([]domain.Certificate, 0, len(dbCerts))
	for i := range dbCerts {
		certs = append(certs, *certificateToDomain(&dbCerts[i]))
	}
	return certs
}
