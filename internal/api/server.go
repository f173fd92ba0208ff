package api

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/sci-insight/sci-api/docs"
	v1 "github.com/sci-insight/sci-api/internal/api/handler/v1"
	"github.com/sci-insight/sci-api/internal/api/handler/v1/response"
	"github.com/sci-insight/sci-api/internal/api/middleware"
	"github.com/sci-insight/sci-api/internal/config"
	"github.com/sci-insight/sci-api/internal/repository"
	"github.com/sci-insight/sci-api/internal/repository/dao"
	"github.com/sci-insight/sci-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := initUserService(db)
	authHandler := s.initAuthHandler(db, userSvc)
	userHandler := v1.NewUserHandler(userSvc)
	competitionHandler := initCompetitionHandler(db, userSvc)
	s.MountHandlers(authHandler, userHandler, competitionHandler)

	return s
}

func initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB, userSvc *service.UserService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)

	return v1.NewAuthHandler(s.Config.API, svc, userSvc)
}

func initCompetitionHandler(db *gorm.DB, userSvc *service.UserService) *v1.CompetitionHandler {
	competitionDAO := dao.NewCompetitionDAO(db)
	repo := repository.NewCompetitionRepository(competitionDAO)
	svc := service.NewCompetitionService(repo)

	return v1.NewCompetitionHandler(svc, userSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.CollectMetrics())
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, competitionHandler *v1.CompetitionHandler) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Public listing surface. Detail accepts an optional token so owners can
	// preview their own pending listings.
	public := s.Router.Group(basePath)
	{
		public.GET("/competitions", competitionHandler.HandleListCompetitions)
		public.GET("/competitions/featured", competitionHandler.HandleListFeatured)
	}
	detail := s.Router.Group(basePath, authenticator.VerifyJWTOptional())
	{
		detail.GET("/competitions/:competitionID", competitionHandler.HandleGetCompetition)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.GET("/auth/me", authHandler.HandleGetMe)
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.POST("/competitions", competitionHandler.HandleCreateCompetition)
		authed.PUT("/competitions/:competitionID", competitionHandler.HandleUpdateCompetition)
		authed.DELETE("/competitions/:competitionID", competitionHandler.HandleDeleteCompetition)
		authed.GET("/competitions/my/competitions", competitionHandler.HandleListMyCompetitions)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT())
	{
		admin.GET("/users", userHandler.HandleListUsers)
		admin.PUT("/users/:userID/activate", userHandler.HandleActivateUser)
		admin.PUT("/users/:userID/deactivate", userHandler.HandleDeactivateUser)

		admin.GET("/competitions/pending", competitionHandler.HandleListPending)
		admin.PUT("/competitions/:competitionID/approve", competitionHandler.HandleApproveCompetition)
		admin.PUT("/competitions/:competitionID/reject", competitionHandler.HandleRejectCompetition)
		admin.PUT("/competitions/:competitionID/feature", competitionHandler.HandleFeatureCompetition)
		admin.PUT("/competitions/:competitionID/unfeature", competitionHandler.HandleUnfeatureCompetition)
		admin.PUT("/competitions/:competitionID/activate", competitionHandler.HandleActivateCompetition)
		admin.PUT("/competitions/:competitionID/deactivate", competitionHandler.HandleDeactivateCompetition)
	}

	// Requests that never match a handler still get a JSON body, the bare
	// {"detail": ...} shape rather than the structured application envelope.
	s.Router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, response.Detail{Detail: "not found"})
	})
	s.Router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, response.Detail{Detail: "method not allowed"})
	})

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "SCI API"
	docs.SwaggerInfo.Description = "Science Competitions Insight REST API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
