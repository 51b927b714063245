package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	stockRepo := repository.NewStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	apartadoRepo := repository.NewApartadoRepository(db)
	corteRepo := repository.NewCorteRepository(db)
	gastoRepo := repository.NewGastoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	stockSvc := service.NewStockService(stockRepo)
	ventaSvc := service.NewVentaService(ventaRepo, stockSvc, productoRepo, sucursalRepo, dispatcher)
	traspasoSvc := service.NewTraspasoService(stockSvc, stockRepo, productoRepo, sucursalRepo)
	apartadoSvc := service.NewApartadoService(apartadoRepo, stockSvc, productoRepo, sucursalRepo)
	corteSvc := service.NewCorteService(corteRepo, ventaRepo, gastoRepo)
	gastoSvc := service.NewGastoService(gastoRepo, sucursalRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(stockSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalRepo)
	ventasH := handler.NewVentasHandler(ventaSvc)
	traspasosH := handler.NewTraspasosHandler(traspasoSvc)
	apartadosH := handler.NewApartadosHandler(apartadoSvc)
	cajaH := handler.NewCajaHandler(corteSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		todos := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervision := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Ventas
		v1.POST("/ventas", todos, ventasH.RegistrarVenta)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.DELETE("/ventas/:id", supervision, ventasH.AnularVenta)

		// Catálogo
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.Obtener)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.DELETE("/:id", productosH.Retirar)
			prods.POST("/:id/reactivar", productosH.Reactivar)
		}

		// Inventario
		v1.GET("/productos/:id/stock", todos, inventarioH.ConsultarStock)
		v1.GET("/productos/:id/movimientos", supervision, inventarioH.Movimientos)
		v1.POST("/productos/:id/ajustes", supervision, inventarioH.AjustarStock)

		// Traspasos entre sucursales
		v1.POST("/traspasos", supervision, traspasosH.Traspasar)

		// Sucursales
		v1.GET("/sucursales", todos, sucursalesH.Listar)
		v1.GET("/sucursales/:id/stock", todos, inventarioH.StockSucursal)
		v1.POST("/sucursales", admin, sucursalesH.Crear)

		// Apartados
		apartados := v1.Group("/apartados", todos)
		{
			apartados.POST("", apartadosH.Crear)
			apartados.GET("", apartadosH.ListarActivos)
			apartados.GET("/:id", apartadosH.Obtener)
			apartados.POST("/:id/abonos", apartadosH.Abonar)
			apartados.POST("/:id/completar", apartadosH.Completar)
		}
		v1.DELETE("/apartados/:id", supervision, apartadosH.Cancelar)

		// Caja
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", todos, cajaH.Abrir)
			caja.GET("/activa", todos, cajaH.Activa)
			caja.POST("/:id/cerrar", todos, cajaH.Cerrar)
			caja.GET("/historial", supervision, cajaH.Historial)
		}

		// Gastos
		v1.POST("/gastos", todos, gastosH.Registrar)
		v1.GET("/gastos", supervision, gastosH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
