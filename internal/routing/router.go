// Package routing assembles the gin engine: common middleware, route tables
// and the handlers behind them.
package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dev-castle-server/internal/handlers"
	"dev-castle-server/internal/managers"
	"dev-castle-server/internal/middleware"
	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, cacheMgr managers.CacheMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, cacheMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "x-auth-token"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, cacheMgr managers.CacheMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Dev Castle",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr)
		userRoutes(apiRouter.Group("/users"), userHdl)
		authRoutes(apiRouter.Group("/auth"), userHdl, jwtMgr)

		postHdl := handlers.NewPostHandler(&databaseMgr, &cacheMgr)
		postRouter := apiRouter.Group("/post")
		postRouter.Use(jwtMgr.JWTMiddleware())
		postRoutes(postRouter, postHdl)

		profileHdl := handlers.NewProfileHandler(&databaseMgr, &cacheMgr)
		profileRouter := apiRouter.Group("/profile")
		profileRouter.Use(jwtMgr.JWTMiddleware())
		profileRoutes(profileRouter, profileHdl)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl) {
	userRouter.POST("/add", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.GET("/get/:"+utils.UserIdParamKey, userHdl.GetUser)
	userRouter.GET("/getall", userHdl.GetAllUsers)
}

func authRoutes(authRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr) {
	authRouter.GET("", jwtMgr.JWTMiddleware(), userHdl.GetCurrentUser)
	authRouter.POST("/signin", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
}

func postRoutes(postRouter *gin.RouterGroup, postHdl handlers.PostHdl) {
	postRouter.POST("/add", middleware.ValidateAndSanitizeStruct(&schemas.CreatePostRequest{}), postHdl.CreatePost)
	postRouter.GET("/getall", postHdl.GetAllPosts)
	postRouter.GET("/get/:"+utils.PostIdParamKey, postHdl.GetPost)
	postRouter.PUT("/like/:"+utils.PostIdParamKey, postHdl.LikePost)
	postRouter.PUT("/unlike/:"+utils.PostIdParamKey, postHdl.UnlikePost)
	postRouter.DELETE("/delete/:"+utils.PostIdParamKey, postHdl.DeletePost)
	postRouter.POST("/comment/:"+utils.PostIdParamKey, middleware.ValidateAndSanitizeStruct(&schemas.CreateCommentRequest{}), postHdl.CreateComment)
	postRouter.DELETE("/comment/:"+utils.PostIdParamKey+"/:"+utils.CommentIdParamKey, postHdl.DeleteComment)
}

func profileRoutes(profileRouter *gin.RouterGroup, profileHdl handlers.ProfileHdl) {
	profileRouter.GET("/me", profileHdl.GetOwnProfile)
	profileRouter.GET("/user/:"+utils.UserIdParamKey, profileHdl.GetProfileByUser)
	profileRouter.POST("/update", middleware.ValidateAndSanitizeStruct(&schemas.UpdateProfileRequest{}), profileHdl.UpdateProfile)
	profileRouter.PUT("/experience", middleware.ValidateAndSanitizeStruct(&schemas.AddExperienceRequest{}), profileHdl.AddExperience)
	profileRouter.DELETE("/experience/delete/:"+utils.EntryIdParamKey, profileHdl.DeleteExperience)
	profileRouter.PUT("/education", middleware.ValidateAndSanitizeStruct(&schemas.AddEducationRequest{}), profileHdl.AddEducation)
	profileRouter.DELETE("/education/delete/:"+utils.EntryIdParamKey, profileHdl.DeleteEducation)
	profileRouter.DELETE("/delete", profileHdl.DeleteProfile)
}
