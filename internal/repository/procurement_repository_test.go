package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/internal/repotest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProcurement(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Institucion{ID: "inst-1", NombreOficial: "Ministerio de Hacienda"}).Error)
	require.NoError(t, db.Create(&model.TipoProcedimiento{ID: "proc-1", Nombre: "Licitación abierta"}).Error)
	require.NoError(t, db.Create(&model.Profile{ID: "user-1", NombreCompleto: "Ana Nguema"}).Error)
	require.NoError(t, db.Create(&model.Proveedor{ID: "prov-1", RazonSocial: "Construcciones Bioko S.A."}).Error)
	require.NoError(t, db.Create(&model.Expediente{
		ID:                  "exp-1",
		CodigoExpediente:    "EXP-001",
		ObjetoContrato:      "Suministro de material escolar",
		Presupuesto:         decimal.NewNullDecimal(decimal.NewFromInt(1500000)),
		InstitucionID:       repotest.Ptr("inst-1"),
		TipoProcedimientoID: repotest.Ptr("proc-1"),
		ResponsableID:       repotest.Ptr("user-1"),
		FechaCreacion:       time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&model.Licitacion{ID: "lic-1", ExpedienteID: repotest.Ptr("exp-1")}).Error)
	require.NoError(t, db.Create(&model.Contrato{
		ID:              "con-1",
		ExpedienteID:    repotest.Ptr("exp-1"),
		ProveedorID:     repotest.Ptr("prov-1"),
		ResponsableID:   repotest.Ptr("user-1"),
		MontoAdjudicado: decimal.NewNullDecimal(decimal.NewFromInt(1200000)),
	}).Error)
}

func TestProcurementRepository(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	seedProcurement(t, db)
	repo := repository.NewProcurementRepository(db)

	exp, err := repo.FindExpediente(ctx, "exp-1")
	require.NoError(t, err)
	assert.Equal(t, "EXP-001", exp.CodigoExpediente)
	require.NotNil(t, exp.Institucion)
	assert.Equal(t, "Ministerio de Hacienda", exp.Institucion.NombreOficial)
	require.NotNil(t, exp.Procedimiento)
	require.NotNil(t, exp.Responsable)
	assert.True(t, exp.Presupuesto.Valid)
	assert.True(t, exp.Presupuesto.Decimal.Equal(decimal.NewFromInt(1500000)))

	lic, err := repo.FindLicitacion(ctx, "lic-1")
	require.NoError(t, err)
	require.NotNil(t, lic.Expediente)
	assert.Equal(t, "EXP-001", lic.Expediente.CodigoExpediente)
	assert.Nil(t, lic.FechaCierre)

	con, err := repo.FindContrato(ctx, "con-1")
	require.NoError(t, err)
	require.NotNil(t, con.Proveedor)
	assert.Equal(t, "Construcciones Bioko S.A.", con.Proveedor.RazonSocial)

	_, err = repo.FindContrato(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	profiles := repository.NewProfileRepository(db)
	p, err := profiles.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Nguema", p.NombreCompleto)
	_, err = profiles.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
