package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
//
// In-memory repositories. DB() returns nil, which makes the services run
// their transaction bodies directly against the stubs.

// stubStockRepo mirrors the ledger semantics of the real repository: missing
// row + negative delta is NO_ENCONTRADO, missing row + positive delta creates,
// going below zero is STOCK_INSUFICIENTE. The mutex stands in for the row lock.
type stubStockRepo struct {
	mu          sync.Mutex
	stock       map[string]int
	movimientos []model.MovimientoStock
	traspasos   []model.Traspaso
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stock: make(map[string]int)}
}

func stockKey(productoID, sucursalID uuid.UUID) string {
	return productoID.String() + "|" + sucursalID.String()
}

func (r *stubStockRepo) Set(productoID, sucursalID uuid.UUID, cantidad int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[stockKey(productoID, sucursalID)] = cantidad
}

func (r *stubStockRepo) Get(productoID, sucursalID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stock[stockKey(productoID, sucursalID)]
}

func (r *stubStockRepo) AjustarTx(_ *gorm.DB, productoID, sucursalID uuid.UUID, delta int) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey(productoID, sucursalID)
	antes, ok := r.stock[key]
	if !ok {
		if delta < 0 {
			return 0, 0, apierror.Newf(apierror.CodeNoEncontrado,
				"no existe stock del producto %s en la sucursal", productoID)
		}
		r.stock[key] = delta
		return 0, delta, nil
	}
	nueva := antes + delta
	if nueva < 0 {
		return antes, antes, apierror.Newf(apierror.CodeStockInsuficiente,
			"stock insuficiente: disponible %d, solicitado %d", antes, -delta)
	}
	r.stock[key] = nueva
	return antes, nueva, nil
}

func (r *stubStockRepo) Consultar(_ context.Context, productoID, sucursalID uuid.UUID) (int, error) {
	return r.Get(productoID, sucursalID), nil
}

func (r *stubStockRepo) ListBySucursal(_ context.Context, _ uuid.UUID) ([]model.StockSucursal, error) {
	return nil, nil
}

func (r *stubStockRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubStockRepo) ListMovimientos(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubStockRepo) CreateTraspasoTx(_ *gorm.DB, t *model.Traspaso) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traspasos = append(r.traspasos, *t)
	return nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// stubProductoRepo serves a fixed catalog.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo(productos ...*model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for _, p := range productos {
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) CambiarEstado(_ context.Context, id uuid.UUID, estado model.EstadoProducto) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubSucursalRepo knows a fixed set of branches.
type stubSucursalRepo struct {
	sucursales map[uuid.UUID]*model.Sucursal
}

func newStubSucursalRepo(ids ...uuid.UUID) *stubSucursalRepo {
	r := &stubSucursalRepo{sucursales: make(map[uuid.UUID]*model.Sucursal)}
	for _, id := range ids {
		r.sucursales[id] = &model.Sucursal{ID: id, Nombre: "Sucursal " + id.String()[:8]}
	}
	return r
}

func (r *stubSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sucursales[s.ID] = s
	return nil
}

func (r *stubSucursalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSucursalRepo) List(_ context.Context) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		out = append(out, *s)
	}
	return out, nil
}

var _ repository.SucursalRepository = (*stubSucursalRepo)(nil)

// stubVentaRepo is an in-memory VentaRepository. sumTotal feeds SumTotal for
// the corte tests. Reads return copies, like the real repository, and
// DeleteTx fails on a missing row just like the RowsAffected guard.
type stubVentaRepo struct {
	mu       sync.Mutex
	ventas   map[uuid.UUID]*model.Venta
	sumTotal decimal.Decimal
	// findTxHook runs after each FindByIDTx read; tests set it to force a
	// specific interleaving between concurrent callers.
	findTxHook func()
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) find(id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	return r.find(id)
}

func (r *stubVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, err := r.find(id)
	if err == nil && r.findTxHook != nil {
		r.findTxHook()
	}
	return v, err
}

func (r *stubVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ventas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) SumTotal(_ context.Context, _, _ uuid.UUID, _ time.Time, _ *time.Time) (decimal.Decimal, error) {
	return r.sumTotal, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubApartadoRepo is an in-memory ApartadoRepository that records abonos.
// Reads return copies; UpdateMontosTx only touches an ACTIVO record, like the
// real repository's estado guard.
type stubApartadoRepo struct {
	mu        sync.Mutex
	apartados map[uuid.UUID]*model.Apartado
	abonos    []model.ApartadoAbono
	// findTxHook runs after each FindByIDTx read; tests set it to force a
	// specific interleaving between concurrent callers.
	findTxHook func()
}

func newStubApartadoRepo() *stubApartadoRepo {
	return &stubApartadoRepo{apartados: make(map[uuid.UUID]*model.Apartado)}
}

func (r *stubApartadoRepo) CreateTx(_ *gorm.DB, a *model.Apartado) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apartados[a.ID] = a
	return nil
}

func (r *stubApartadoRepo) find(id uuid.UUID) (*model.Apartado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apartados[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *a
	return &cp, nil
}

func (r *stubApartadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Apartado, error) {
	return r.find(id)
}

func (r *stubApartadoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Apartado, error) {
	a, err := r.find(id)
	if err == nil && r.findTxHook != nil {
		r.findTxHook()
	}
	return a, err
}

func (r *stubApartadoRepo) UpdateMontosTx(_ *gorm.DB, a *model.Apartado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existente, ok := r.apartados[a.ID]
	if !ok || existente.Estado != model.ApartadoActivo {
		return gorm.ErrRecordNotFound
	}
	existente.MontoPagado = a.MontoPagado
	existente.MontoPendiente = a.MontoPendiente
	existente.Estado = a.Estado
	return nil
}

func (r *stubApartadoRepo) CreateAbonoTx(_ *gorm.DB, ab *model.ApartadoAbono) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.abonos = append(r.abonos, *ab)
	return nil
}

func (r *stubApartadoRepo) ListActivos(_ context.Context, sucursalID uuid.UUID) ([]model.Apartado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Apartado
	for _, a := range r.apartados {
		if a.SucursalID == sucursalID && a.Estado == model.ApartadoActivo {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubApartadoRepo) DB() *gorm.DB { return nil }

var _ repository.ApartadoRepository = (*stubApartadoRepo)(nil)

// stubCorteRepo is an in-memory CorteRepository.
type stubCorteRepo struct {
	cortes map[uuid.UUID]*model.CorteCaja
}

func newStubCorteRepo() *stubCorteRepo {
	return &stubCorteRepo{cortes: make(map[uuid.UUID]*model.CorteCaja)}
}

func (r *stubCorteRepo) Create(_ context.Context, c *model.CorteCaja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cortes[c.ID] = c
	return nil
}

func (r *stubCorteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CorteCaja, error) {
	c, ok := r.cortes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCorteRepo) FindAbiertoByUsuario(_ context.Context, usuarioID uuid.UUID) (*model.CorteCaja, error) {
	for _, c := range r.cortes {
		if c.UsuarioID == usuarioID && c.Abierto() {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCorteRepo) Update(_ context.Context, c *model.CorteCaja) error {
	r.cortes[c.ID] = c
	return nil
}

func (r *stubCorteRepo) Historial(_ context.Context, sucursalID uuid.UUID, _ int) ([]model.CorteCaja, error) {
	var out []model.CorteCaja
	for _, c := range r.cortes {
		if c.SucursalID == sucursalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CorteRepository = (*stubCorteRepo)(nil)

// stubGastoRepo captures created gastos; sum feeds Sum for the corte tests.
type stubGastoRepo struct {
	gastos []model.Gasto
	sum    decimal.Decimal
}

func (r *stubGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos = append(r.gastos, *g)
	return nil
}

func (r *stubGastoRepo) List(_ context.Context, _ dto.GastoFilter) ([]model.Gasto, int64, error) {
	return r.gastos, int64(len(r.gastos)), nil
}

func (r *stubGastoRepo) Sum(_ context.Context, _, _ uuid.UUID, _ time.Time, _ *time.Time) (decimal.Decimal, error) {
	return r.sum, nil
}

var _ repository.GastoRepository = (*stubGastoRepo)(nil)

// stubUsuarioRepo serves fixed users by username.
type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo(usuarios ...*model.Usuario) *stubUsuarioRepo {
	r := &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
	for _, u := range usuarios {
		r.usuarios[u.Username] = u
	}
	return r
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Fixture helpers ───────────────────────────────────────────────────────────

func nuevoProducto(nombre string, precio string, ivaPct string) *model.Producto {
	return &model.Producto{
		ID:          uuid.New(),
		Tipo:        model.TipoLibro,
		Nombre:      nombre,
		PrecioVenta: decimal.RequireFromString(precio),
		PrecioCosto: decimal.RequireFromString(precio).Div(decimal.NewFromInt(2)),
		IVAPct:      decimal.RequireFromString(ivaPct),
		Estado:      model.ProductoActivo,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
