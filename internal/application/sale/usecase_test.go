package sale_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distrisur/almacen-api/internal/application/dto"
	"github.com/distrisur/almacen-api/internal/application/sale"
	"github.com/distrisur/almacen-api/internal/domain"
	"github.com/distrisur/almacen-api/internal/domain/alloc"
	"github.com/distrisur/almacen-api/internal/domain/entity"
	"github.com/distrisur/almacen-api/internal/domain/repository"
	"github.com/distrisur/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore simula la base de datos: un producto, sus presentaciones, su caja
// abierta y el libro de movimientos.
type memStore struct {
	item          *entity.StockItem
	presentations []*entity.Presentation
	box           *entity.OpenBox
	movements     []*entity.Movement

	failMovementCreate bool // fuerza el fallo del anexo para probar atomicidad
}

func (s *memStore) snapshot() *memStore {
	cp := &memStore{failMovementCreate: s.failMovementCreate}
	if s.item != nil {
		item := *s.item
		cp.item = &item
	}
	if s.box != nil {
		box := *s.box
		cp.box = &box
	}
	for _, p := range s.presentations {
		pres := *p
		cp.presentations = append(cp.presentations, &pres)
	}
	cp.movements = append(cp.movements, s.movements...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.item = from.item
	s.box = from.box
	s.presentations = from.presentations
	s.movements = from.movements
}

type fakeItemRepo struct{ s *memStore }

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	if r.s.item == nil || r.s.item.ID != id {
		return nil, nil
	}
	item := *r.s.item
	return &item, nil
}

func (r *fakeItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.s.item = item
	return nil
}

func (r *fakeItemRepo) UpdateBalance(_ context.Context, id string, totalUnits int64) error {
	if r.s.item == nil || r.s.item.ID != id {
		return domain.ErrNotFound
	}
	r.s.item.TotalUnits = totalUnits
	return nil
}

func (r *fakeItemRepo) ListBalances(_ context.Context) ([]repository.StockBalance, error) {
	if r.s.item == nil {
		return nil, nil
	}
	return []repository.StockBalance{{
		StockItemID: r.s.item.ID,
		Name:        r.s.item.Name,
		TotalUnits:  r.s.item.TotalUnits,
	}}, nil
}

type fakePresRepo struct{ s *memStore }

func (r *fakePresRepo) ListByStockItem(_ context.Context, stockItemID string) ([]*entity.Presentation, error) {
	var out []*entity.Presentation
	for _, p := range r.s.presentations {
		if p.StockItemID == stockItemID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePresRepo) GetByID(_ context.Context, id string) (*entity.Presentation, error) {
	for _, p := range r.s.presentations {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePresRepo) GetAtomic(_ context.Context, stockItemID string) (*entity.Presentation, error) {
	for _, p := range r.s.presentations {
		if p.StockItemID == stockItemID && p.IsAtomic() {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePresRepo) GetDefault(_ context.Context, stockItemID string) (*entity.Presentation, error) {
	for _, p := range r.s.presentations {
		if p.StockItemID == stockItemID && p.IsDefault {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePresRepo) Create(_ context.Context, p *entity.Presentation) error {
	r.s.presentations = append(r.s.presentations, p)
	return nil
}

type fakeBoxRepo struct{ s *memStore }

func (r *fakeBoxRepo) Get(_ context.Context, stockItemID string) (*entity.OpenBox, error) {
	if r.s.box == nil || r.s.box.StockItemID != stockItemID {
		return nil, nil
	}
	box := *r.s.box
	return &box, nil
}

func (r *fakeBoxRepo) Upsert(_ context.Context, box *entity.OpenBox) error {
	cp := *box
	r.s.box = &cp
	return nil
}

func (r *fakeBoxRepo) Delete(_ context.Context, stockItemID string) error {
	if r.s.box != nil && r.s.box.StockItemID == stockItemID {
		r.s.box = nil
	}
	return nil
}

type fakeMovRepo struct{ s *memStore }

func (r *fakeMovRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.s.failMovementCreate {
		return errors.New("fallo inyectado")
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *fakeMovRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.Movement, error) {
	return r.s.movements, nil
}

func (r *fakeMovRepo) LatestBalance(_ context.Context, stockItemID string) (int64, bool, error) {
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].StockItemID == stockItemID {
			return r.s.movements[i].BalanceAfter, true, nil
		}
	}
	return 0, false, nil
}

// fakeTxRunner imita el rollback: toma una foto del store y la restaura si la
// función devuelve error.
type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.StockItemRepository,
	presRepo repository.PresentationRepository,
	boxRepo repository.OpenBoxRepository,
	movRepo repository.MovementRepository,
) error) error {
	before := t.s.snapshot()
	err := fn(&fakeItemRepo{t.s}, &fakePresRepo{t.s}, &fakeBoxRepo{t.s}, &fakeMovRepo{t.s})
	if err != nil {
		t.s.restore(before)
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del escenario
// ──────────────────────────────────────────────────────────────────────────────

type saleFixture struct {
	store  *memStore
	uc     *sale.UseCase
	itemID string
	caseID string
}

// newSaleFixture arma un producto con presentación atómica ("Unidad") y de
// caja por 12 ("Caja x12", predeterminada), con el saldo indicado.
func newSaleFixture(t *testing.T, totalUnits int64) *saleFixture {
	t.Helper()
	itemID := uuid.NewString()
	caseID := uuid.NewString()
	store := &memStore{
		item: &entity.StockItem{ID: itemID, Name: "Filtro de aceite", TotalUnits: totalUnits},
		presentations: []*entity.Presentation{
			{ID: uuid.NewString(), StockItemID: itemID, Name: "Unidad", ConversionFactor: 1},
			{ID: caseID, StockItemID: itemID, Name: "Caja x12", ConversionFactor: 12, IsDefault: true},
		},
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	uc := sale.NewUseCase(&fakeTxRunner{store}, &fakeItemRepo{store}, &fakePresRepo{store}, &fakeBoxRepo{store}, log)
	return &saleFixture{store: store, uc: uc, itemID: itemID, caseID: caseID}
}

func (f *saleFixture) openBox(remaining int64) {
	f.store.box = &entity.OpenBox{
		StockItemID:    f.itemID,
		PresentationID: f.caseID,
		UnitsOriginal:  12,
		UnitsRemaining: remaining,
	}
}

func looseSale(f *saleFixture, qty int64) dto.SaleRequest {
	return dto.SaleRequest{
		StockItemID: f.itemID,
		SaleType:    alloc.SaleTypeLooseUnits,
		Quantity:    qty,
		Actor:       "vendedor",
	}
}

func caseSale(f *saleFixture, qty int64) dto.SaleRequest {
	return dto.SaleRequest{
		StockItemID:    f.itemID,
		SaleType:       alloc.SaleTypeCaseComplete,
		PresentationID: f.caseID,
		Quantity:       qty,
		Actor:          "vendedor",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Simulación
// ──────────────────────────────────────────────────────────────────────────────

func TestSimulate_SueltasRompiendoCaja(t *testing.T) {
	// 30 unidades, todo sellado, caja x12: vender 5 sueltas rompe una caja.
	f := newSaleFixture(t, 30)
	ctx := context.Background()

	res, err := f.uc.Simulate(ctx, looseSale(f, 5))
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, int64(0), res.UnitsFromOpenBox)
	assert.Equal(t, int64(5), res.UnitsFromNewCase)
	assert.True(t, res.BreaksNewCase)
	assert.Equal(t, int64(7), res.ResultingOpenBoxRemainder)
	assert.Equal(t, int64(25), res.ProjectedBalance)
	assert.Equal(t, f.caseID, res.CasePresentationID)

	// La simulación no muta nada.
	assert.Nil(t, f.store.box)
	assert.Equal(t, int64(30), f.store.item.TotalUnits)
	assert.Empty(t, f.store.movements)
}

func TestSimulate_InfactibleConMotivo(t *testing.T) {
	// Faltante mayor a una caja: infactible aunque el agregado alcance.
	f := newSaleFixture(t, 30)
	f.openBox(2)
	ctx := context.Background()

	res, err := f.uc.Simulate(ctx, looseSale(f, 15))
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.NotEmpty(t, res.Reason)
	assert.Equal(t, int64(2), res.ResultingOpenBoxRemainder, "reporta el estado vigente")
	assert.Equal(t, int64(30), res.ProjectedBalance)
}

func TestSimulate_ProductoInexistente(t *testing.T) {
	f := newSaleFixture(t, 30)
	req := looseSale(f, 5)
	req.StockItemID = uuid.NewString()
	_, err := f.uc.Simulate(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_SueltasSinCajaAbierta(t *testing.T) {
	f := newSaleFixture(t, 30)
	ctx := context.Background()

	res, err := f.uc.Commit(ctx, looseSale(f, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(-5), res.QuantityDelta)
	assert.Equal(t, int64(30), res.BalanceBefore)
	assert.Equal(t, int64(25), res.BalanceAfter)
	assert.Equal(t, int64(7), res.ResultingOpenBoxRemainder)

	require.NotNil(t, f.store.box)
	assert.Equal(t, int64(7), f.store.box.UnitsRemaining)
	assert.Equal(t, f.caseID, f.store.box.PresentationID)
	assert.Equal(t, int64(25), f.store.item.TotalUnits)

	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementTypeSalida, mov.Type)
	assert.Equal(t, int64(-5), mov.QuantityDelta)
	assert.NoError(t, mov.Validate())
}

func TestCommit_SueltasAgotandoCajaYRompiendoOtra(t *testing.T) {
	// Caja abierta con 7: vender 10 consume las 7 y rompe otra caja por 3.
	f := newSaleFixture(t, 25)
	f.openBox(7)
	ctx := context.Background()

	res, err := f.uc.Commit(ctx, looseSale(f, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.UnitsFromOpenBox)
	assert.Equal(t, int64(3), res.UnitsFromNewCase)
	assert.Equal(t, int64(9), res.ResultingOpenBoxRemainder)
	assert.Equal(t, int64(15), res.BalanceAfter)

	require.NotNil(t, f.store.box)
	assert.Equal(t, int64(9), f.store.box.UnitsRemaining)
	assert.Equal(t, int64(15), f.store.item.TotalUnits)
}

func TestCommit_SueltasDentroDeLaCajaAbierta(t *testing.T) {
	f := newSaleFixture(t, 25)
	f.openBox(7)
	ctx := context.Background()

	res, err := f.uc.Commit(ctx, looseSale(f, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ResultingOpenBoxRemainder)
	assert.Nil(t, f.store.box, "la caja exhausta se cierra sola")
	assert.Equal(t, int64(18), f.store.item.TotalUnits)
}

func TestCommit_CajaCompletaExcluyeLaCajaAbierta(t *testing.T) {
	// 30 unidades con caja abierta de 7: solo 23 selladas = 1 caja completa.
	f := newSaleFixture(t, 30)
	f.openBox(7)
	ctx := context.Background()

	_, err := f.uc.Commit(ctx, caseSale(f, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	res, err := f.uc.Commit(ctx, caseSale(f, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(-12), res.QuantityDelta)
	assert.Equal(t, int64(18), res.BalanceAfter)
	assert.Equal(t, int64(7), res.ResultingOpenBoxRemainder)

	// La caja abierta no participa ni se toca.
	require.NotNil(t, f.store.box)
	assert.Equal(t, int64(7), f.store.box.UnitsRemaining)
}

func TestCommit_CajaCompletaRequierePresentacion(t *testing.T) {
	f := newSaleFixture(t, 30)
	req := caseSale(f, 1)
	req.PresentationID = ""
	_, err := f.uc.Commit(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidPresentation))
}

func TestCommit_SaldoEsperadoDesactualizado(t *testing.T) {
	// La simulación vio 30, otro commit bajó el saldo a 25: el caller debe
	// re-simular en vez de aplicar un plan viejo.
	f := newSaleFixture(t, 25)
	ctx := context.Background()

	esperado := int64(30)
	req := looseSale(f, 5)
	req.ExpectedBalance = &esperado

	_, err := f.uc.Commit(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrentModification))
	assert.Equal(t, int64(25), f.store.item.TotalUnits)
	assert.Empty(t, f.store.movements)
}

func TestCommit_SaldoEsperadoVigente(t *testing.T) {
	f := newSaleFixture(t, 30)
	esperado := int64(30)
	req := looseSale(f, 5)
	req.ExpectedBalance = &esperado

	res, err := f.uc.Commit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.BalanceAfter)
}

func TestCommit_AtomicidadAnteFalloDelLibro(t *testing.T) {
	// Si el anexo al libro falla, ni la caja ni el saldo deben cambiar.
	f := newSaleFixture(t, 30)
	f.store.failMovementCreate = true

	_, err := f.uc.Commit(context.Background(), looseSale(f, 5))
	require.Error(t, err)
	assert.Nil(t, f.store.box)
	assert.Equal(t, int64(30), f.store.item.TotalUnits)
	assert.Empty(t, f.store.movements)
}

func TestCommit_InfactibleNoPersisteNada(t *testing.T) {
	f := newSaleFixture(t, 10)
	f.openBox(2) // 8 selladas: ni una caja completa que romper

	_, err := f.uc.Commit(context.Background(), looseSale(f, 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(10), f.store.item.TotalUnits)
	assert.Equal(t, int64(2), f.store.box.UnitsRemaining)
}

func TestCommit_EntradaInvalida(t *testing.T) {
	f := newSaleFixture(t, 30)
	req := looseSale(f, 0)
	_, err := f.uc.Commit(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	req = looseSale(f, 5)
	req.SaleType = "MAYOREO"
	_, err = f.uc.Commit(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
