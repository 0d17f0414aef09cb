package document

import (
	"context"
	"errors"
	"time"

	"github.com/pnccp/pnccp-backend/internal/model"
	"github.com/pnccp/pnccp-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// Field 实体字段（已格式化）
type Field struct {
	Key   string
	Value string
}

// FieldResolver 按实体ID解析字段；实体不存在时返回 nil, nil
type FieldResolver interface {
	Resolve(ctx context.Context, id string) ([]Field, error)
}

// FieldResolverFunc 函数适配器
type FieldResolverFunc func(ctx context.Context, id string) ([]Field, error)

func (f FieldResolverFunc) Resolve(ctx context.Context, id string) ([]Field, error) {
	return f(ctx, id)
}

// ProcurementStore 采购实体只读查询
type ProcurementStore interface {
	FindExpediente(ctx context.Context, id string) (*model.Expediente, error)
	FindLicitacion(ctx context.Context, id string) (*model.Licitacion, error)
	FindContrato(ctx context.Context, id string) (*model.Contrato, error)
}

// EntityResolvers 实体类型 -> 字段解析器
type EntityResolvers map[string]FieldResolver

// NewEntityResolvers 注册 expediente、licitacion、contrato 三种实体
func NewEntityResolvers(store ProcurementStore, f Formatter) EntityResolvers {
	return EntityResolvers{
		model.EntityExpediente: FieldResolverFunc(func(ctx context.Context, id string) ([]Field, error) {
			exp, err := store.FindExpediente(ctx, id)
			if err != nil {
				return nil, missingAsEmpty(err)
			}
			var b fieldBuilder
			b.add("codigo_expediente", exp.CodigoExpediente)
			b.add("objeto_contrato", exp.ObjetoContrato)
			b.currency(f, "presupuesto", exp.Presupuesto)
			if exp.Institucion != nil {
				b.add("institucion", exp.Institucion.NombreOficial)
			}
			if exp.Procedimiento != nil {
				b.add("procedimiento", exp.Procedimiento.Nombre)
			}
			if exp.Responsable != nil {
				b.add("responsable", exp.Responsable.NombreCompleto)
			}
			b.date(f, "fecha_creacion", &exp.FechaCreacion)
			return b.fields, nil
		}),
		model.EntityLicitacion: FieldResolverFunc(func(ctx context.Context, id string) ([]Field, error) {
			lic, err := store.FindLicitacion(ctx, id)
			if err != nil {
				return nil, missingAsEmpty(err)
			}
			var b fieldBuilder
			if lic.Expediente != nil {
				b.add("codigo_expediente", lic.Expediente.CodigoExpediente)
				b.add("objeto", lic.Expediente.ObjetoContrato)
				b.currency(f, "presupuesto", lic.Expediente.Presupuesto)
			}
			b.date(f, "fecha_cierre", lic.FechaCierre)
			return b.fields, nil
		}),
		model.EntityContrato: FieldResolverFunc(func(ctx context.Context, id string) ([]Field, error) {
			con, err := store.FindContrato(ctx, id)
			if err != nil {
				return nil, missingAsEmpty(err)
			}
			var b fieldBuilder
			if con.Expediente != nil {
				b.add("codigo_expediente", con.Expediente.CodigoExpediente)
				b.add("objeto", con.Expediente.ObjetoContrato)
			}
			b.currency(f, "monto_adjudicado", con.MontoAdjudicado)
			if con.Proveedor != nil {
				b.add("proveedor", con.Proveedor.RazonSocial)
			}
			if con.Responsable != nil {
				b.add("responsable", con.Responsable.NombreCompleto)
			}
			b.date(f, "fecha_inicio", con.FechaInicio)
			b.date(f, "fecha_fin", con.FechaFin)
			return b.fields, nil
		}),
	}
}

// Resolve 未知实体类型返回空字段
func (r EntityResolvers) Resolve(ctx context.Context, kind, id string) ([]Field, error) {
	resolver, ok := r[kind]
	if !ok {
		return nil, nil
	}
	return resolver.Resolve(ctx, id)
}

func missingAsEmpty(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

type fieldBuilder struct {
	fields []Field
}

func (b *fieldBuilder) add(key, value string) {
	b.fields = append(b.fields, Field{Key: key, Value: value})
}

func (b *fieldBuilder) currency(f Formatter, key string, amount decimal.NullDecimal) {
	if amount.Valid {
		b.add(key, f.Currency(amount.Decimal))
	}
}

func (b *fieldBuilder) date(f Formatter, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		b.add(key, f.Date(*t))
	}
}
