package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"calc-service/internal/auth"
	"calc-service/internal/domain"
	"calc-service/internal/metrics"
	"calc-service/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	calcs   service.CalculationService
	users   service.UserService
	tokens  *auth.TokenManager
	limiter *RateLimiter
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewHandler(
	calcs service.CalculationService,
	users service.UserService,
	tokens *auth.TokenManager,
	limiter *RateLimiter,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) *Handler {
	return &Handler{
		calcs:   calcs,
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		metrics: m,
		log:     log,
	}
}

// NewRouter returns a gin engine with panic recovery. Forwarding headers such as
// X-Forwarded-For are honoured only from trustedProxies; with none, ClientIP is
// always the socket peer.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	return router, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), requestLogger(h.log), h.metrics.Middleware(), corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	router.GET("/add", h.legacyBinary(domain.OperationAdd))
	router.GET("/sub", h.legacyBinary(domain.OperationSub))
	router.GET("/mul", h.legacyBinary(domain.OperationMultiply))
	router.GET("/div", h.legacyBinary(domain.OperationDivide))
	router.GET("/calc", h.legacyCalc)

	calcs := router.Group("/calculations")
	{
		calcs.POST("/", h.optionalAuth(), h.createCalculation)
		calcs.GET("/", h.requireAuth(), h.listCalculations)
		calcs.GET("/:id", h.requireAuth(), h.getCalculation)
		calcs.PUT("/:id", h.requireAuth(), h.updateCalculation)
		calcs.DELETE("/:id", h.requireAuth(), h.deleteCalculation)
	}

	authGroup := router.Group("/auth", h.limiter.Middleware(h.metrics))
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	profile := router.Group("/profile", h.requireAuth())
	{
		profile.GET("/me", h.getProfile)
		profile.PUT("/me", h.updateProfile)
		profile.POST("/change-password", h.changePassword)
	}

	router.GET("/dashboard/stats", h.requireAuth(), h.stats)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
