package router

import (
	"time"

	"cartapos/internal/config"
	"cartapos/internal/handler"
	"cartapos/internal/middleware"
	"cartapos/internal/repository"
	"cartapos/internal/service"
	"cartapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	unidadRepo := repository.NewUnidadMedidaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ingredienteRepo := repository.NewIngredienteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	conversionSvc := service.NewConversionService(unidadRepo)
	costoSvc := service.NewCostoService(conversionSvc, ingredienteRepo)
	cascadaSvc := service.NewCascadaService(productoRepo, ingredienteRepo, costoSvc)
	disponibilidadSvc := service.NewDisponibilidadService(productoRepo, ingredienteRepo, conversionSvc)
	catalogoSvc := service.NewCatalogoService(unidadRepo, productoRepo, ingredienteRepo, costoSvc)

	// Worker dispatcher — injected into handlers that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	unidadesH := handler.NewUnidadesHandler(catalogoSvc, conversionSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	costosH := handler.NewCostosHandler(cascadaSvc, dispatcher)
	disponibilidadH := handler.NewDisponibilidadHandler(disponibilidadSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		unidades := v1.Group("/unidades")
		{
			unidades.POST("", unidadesH.Crear)
			unidades.POST("/conversiones", unidadesH.CrearConversion)
			unidades.GET("/convertir", unidadesH.Convertir)
		}

		v1.POST("/ingredientes", catalogoH.CrearIngrediente)

		productos := v1.Group("/productos")
		{
			productos.POST("", catalogoH.CrearProducto)
			productos.PATCH("/:id/costo-base", costosH.ActualizarCostoBase)
			productos.POST("/:id/disponibilidad", disponibilidadH.Verificar)
		}
	}

	return r
}
