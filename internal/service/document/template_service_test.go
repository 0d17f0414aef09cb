package document

import (
	"context"
	"testing"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/pnccp/pnccp-backend/internal/repotest"
	"github.com/pnccp/pnccp-backend/pkg/distributed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTemplateService(t *testing.T) (*TemplateService, *gorm.DB) {
	t.Helper()
	db := repotest.NewDB(t)
	svc := NewTemplateService(repository.NewDocumentTemplateRepository(db), distributed.NewLocker(nil, "pnccp:template:activate:", 0))
	return svc, db
}

func createRequest(categoria string) model.CreateTemplateRequest {
	return model.CreateTemplateRequest{
		NombreDocumento: "Acta de adjudicación",
		Tipo:            "acta",
		Categoria:       categoria,
		EstructuraJSON:  datatypes.JSON(`{"contenido":"Adjudicado a {{proveedor}}"}`),
	}
}

func TestTemplateServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService(t)

	first, err := svc.Create(ctx, createRequest("adjudicaciones"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.TemplateStatusDraft, first.Estado)
	assert.Equal(t, model.TemplateScopeNational, first.Ambito)
	assert.Equal(t, "pdf", first.Formato)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "user-1", first.CreatedBy)

	second, err := svc.Create(ctx, createRequest("adjudicaciones"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	tests := []struct {
		name string
		req  model.CreateTemplateRequest
	}{
		{"缺少名称", model.CreateTemplateRequest{Categoria: "x"}},
		{"非法范围", model.CreateTemplateRequest{NombreDocumento: "x", Ambito: "regional"}},
		{"机构模板缺少机构", model.CreateTemplateRequest{NombreDocumento: "x", Ambito: model.TemplateScopeInstitutional}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req, "")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTemplateServiceActivateKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	svc, db := newTemplateService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		tpl, err := svc.Create(ctx, createRequest("adjudicaciones"), "")
		require.NoError(t, err)
		ids = append(ids, tpl.ID)
	}

	for _, id := range ids {
		activated, err := svc.Activate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.TemplateStatusActive, activated.Estado)
		require.NotNil(t, activated.ActivaDesde)

		var active []model.DocumentTemplate
		require.NoError(t, db.Where("categoria = ? AND estado = ?", "adjudicaciones", model.TemplateStatusActive).Find(&active).Error)
		require.Len(t, active, 1)
		assert.Equal(t, id, active[0].ID)
	}

	_, err := svc.Activate(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string) (func(), error) {
	return nil, distributed.ErrLockHeld
}

func TestTemplateServiceActivateLockHeld(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	repo := repository.NewDocumentTemplateRepository(db)
	svc := NewTemplateService(repo, heldLocker{})

	tpl, err := svc.Create(ctx, createRequest("actas"), "")
	require.NoError(t, err)

	_, err = svc.Activate(ctx, tpl.ID)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateStatusDraft, got.Estado)
}

func TestTemplateServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTemplateService(t)

	tpl, err := svc.Create(ctx, createRequest("actas"), "")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, tpl.ID, model.UpdateTemplateRequest{
		NombreDocumento: "Acta revisada",
		EstructuraJSON:  datatypes.JSON(`{"contenido":"nuevo {{x}}"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acta revisada", updated.NombreDocumento)
	assert.Equal(t, "nuevo {{x}}", updated.Body())

	_, err = svc.Activate(ctx, tpl.ID)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.UpdateTemplateRequest
	}{
		{"激活后不能修改正文", model.UpdateTemplateRequest{EstructuraJSON: datatypes.JSON(`{"contenido":"x"}`)}},
		{"激活后不能修改分类", model.UpdateTemplateRequest{Categoria: "otra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tpl.ID, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	renamed, err := svc.Update(ctx, tpl.ID, model.UpdateTemplateRequest{DescripcionUsos: "Uso interno"})
	require.NoError(t, err)
	assert.Equal(t, "Uso interno", renamed.DescripcionUsos)
	assert.Equal(t, model.TemplateStatusActive, renamed.Estado)

	_, err = svc.Update(ctx, "missing", model.UpdateTemplateRequest{Tipo: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateServiceDeleteAndObsolete(t *testing.T) {
	ctx := context.Background()
	svc, db := newTemplateService(t)

	used, err := svc.Create(ctx, createRequest("actas"), "")
	require.NoError(t, err)
	unused, err := svc.Create(ctx, createRequest("actas"), "")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.DocumentEmission{
		ID: "e1", TemplateID: used.ID, EntidadOrigen: "expediente", EntidadID: "x",
		VersionUtilizada: 1, HashDocumento: "h", URLStorage: "u", EstadoEmision: model.EmissionStatusGenerated,
	}).Error)

	err = svc.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.Delete(ctx, unused.ID))
	_, err = svc.Get(ctx, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	obsolete, err := svc.Obsolete(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TemplateStatusObsolete, obsolete.Estado)

	items, total, err := svc.List(ctx, model.TemplateFilter{Estado: model.TemplateStatusObsolete})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, used.ID, items[0].ID)
}

func TestTemplateServiceUpdateCategoryReassignsVersion(t *testing.T) {
	ctx := context.Background()
	svc, db := newTemplateService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, createRequest("actas"), "user-1")
		require.NoError(t, err)
	}
	moved, err := svc.Create(ctx, createRequest("contratos"), "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, moved.Version)

	moved, err = svc.Update(ctx, moved.ID, model.UpdateTemplateRequest{Categoria: "actas"})
	require.NoError(t, err)
	assert.Equal(t, 4, moved.Version)

	var versions []int
	require.NoError(t, db.Model(&model.DocumentTemplate{}).
		Where("categoria = ?", "actas").
		Order("version").
		Pluck("version", &versions).Error)
	assert.Equal(t, []int{1, 2, 3, 4}, versions)

	// 分类不变时版本号保持
	same, err := svc.Update(ctx, moved.ID, model.UpdateTemplateRequest{Categoria: "actas", NombreDocumento: "Acta final"})
	require.NoError(t, err)
	assert.Equal(t, 4, same.Version)
}
