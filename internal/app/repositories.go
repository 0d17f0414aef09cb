package app

import (
	"github.com/pnccp/pnccp-backend/internal/repository"
	"gorm.io/gorm"
)

// Repositories 包含所有 Repository 实例
type Repositories struct {
	Template     *repository.DocumentTemplateRepository
	Emission     *repository.DocumentEmissionRepository
	Profile      *repository.ProfileRepository
	Procurement  *repository.ProcurementRepository
	OperationLog *repository.OperationLogRepository
}

// InitializeRepositories 初始化所有 Repository
func InitializeRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Template:     repository.NewDocumentTemplateRepository(db),
		Emission:     repository.NewDocumentEmissionRepository(db),
		Profile:      repository.NewProfileRepository(db),
		Procurement:  repository.NewProcurementRepository(db),
		OperationLog: repository.NewOperationLogRepository(db),
	}
}
