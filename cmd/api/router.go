package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aic-hub-backend/internal/shared/middleware"
	"aic-hub-backend/internal/shared/response"
	"aic-hub-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.FrontendURL),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupTagRoutes(v1, c)
		setupArticleRoutes(v1, c)
		setupSpaceRoutes(v1, c)
		setupSearchRoutes(v1, c)
		setupFeedRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/logout", c.AuthHandler.Logout)
		auth.GET("/login/github", c.AuthHandler.GithubLogin)
		auth.GET("/callback/github", c.AuthHandler.GithubCallback)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.Config.Session.CookieName)

	users := v1.Group("/users")
	{
		users.GET("/me", requireAuth, c.UserHandler.GetMe)
		users.PATCH("/me", requireAuth, c.UserHandler.UpdateMe)
		users.POST("/check-username", requireAuth, c.UserHandler.CheckUsername)
		users.GET("", c.UserHandler.ListUsers)
		users.GET("/:username", c.UserHandler.GetByUsername)
	}
}

func setupTagRoutes(v1 *gin.RouterGroup, c *container.Container) {
	tags := v1.Group("/tags")
	{
		tags.GET("", c.TagHandler.ListTags)
		tags.GET("/:tag", c.TagHandler.GetTag)
		tags.POST("/suggest", c.TagHandler.SuggestTags)
	}
}

func setupArticleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.Config.Session.CookieName)
	optionalAuth := middleware.OptionalAuthMiddleware(c.Tokens, c.Config.Session.CookieName)

	articles := v1.Group("/articles")
	{
		articles.POST("", requireAuth, c.ArticleHandler.Create)
		articles.GET("", c.ArticleHandler.List)
		articles.GET("/drafts", requireAuth, c.ArticleHandler.Drafts)
		articles.GET("/:slug", optionalAuth, c.ArticleHandler.GetBySlug)
		articles.PATCH("/:id", requireAuth, c.ArticleHandler.Update)
		articles.DELETE("/:id", requireAuth, c.ArticleHandler.Delete)
		articles.POST("/:id/publish", requireAuth, c.ArticleHandler.Publish)
		articles.POST("/:id/unpublish", requireAuth, c.ArticleHandler.Unpublish)
	}
}

func setupSpaceRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.Config.Session.CookieName)
	optionalAuth := middleware.OptionalAuthMiddleware(c.Tokens, c.Config.Session.CookieName)

	spaces := v1.Group("/spaces")
	{
		spaces.POST("", requireAuth, c.SpaceHandler.Create)
		spaces.GET("", optionalAuth, c.SpaceHandler.List)
		// Same wildcard name as the nested GET routes; gin rejects
		// mixed names at the same segment within one method tree.
		spaces.GET("/:id", optionalAuth, c.SpaceHandler.GetBySlug)
		spaces.PATCH("/:id", requireAuth, c.SpaceHandler.Update)
		spaces.DELETE("/:id", requireAuth, c.SpaceHandler.Delete)
		spaces.POST("/:id/join", requireAuth, c.SpaceHandler.Join)
		spaces.POST("/:id/leave", requireAuth, c.SpaceHandler.Leave)
		spaces.GET("/:id/members", optionalAuth, c.SpaceHandler.Members)
		spaces.PATCH("/:id/members/:userId", requireAuth, c.SpaceHandler.UpdateMemberRole)
		spaces.POST("/:id/articles", requireAuth, c.SpaceHandler.ShareArticle)
		spaces.GET("/:id/articles", optionalAuth, c.SpaceHandler.ListArticles)
		spaces.PATCH("/:id/articles/:articleId", requireAuth, c.SpaceHandler.PinArticle)
		spaces.DELETE("/:id/articles/:articleId", requireAuth, c.SpaceHandler.RemoveArticle)
	}
}

func setupSearchRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.Config.Session.CookieName)

	search := v1.Group("/search")
	{
		search.GET("", c.SearchHandler.Search)
		search.GET("/autocomplete", c.SearchHandler.Autocomplete)
		search.POST("/index", requireAuth, c.SearchHandler.Reindex)
	}
}

func setupFeedRoutes(v1 *gin.RouterGroup, c *container.Container) {
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.Config.Session.CookieName)
	optionalAuth := middleware.OptionalAuthMiddleware(c.Tokens, c.Config.Session.CookieName)

	feed := v1.Group("/feed")
	{
		feed.GET("", optionalAuth, c.FeedHandler.Feed)
		feed.GET("/trending", c.FeedHandler.Trending)
		feed.GET("/discover", c.FeedHandler.Discover)
		feed.GET("/activity", c.FeedHandler.Activity)
		feed.GET("/recommendations", requireAuth, c.FeedHandler.Recommendations)
		feed.GET("/preferences", requireAuth, c.FeedHandler.GetPreferences)
		feed.PATCH("/preferences", requireAuth, c.FeedHandler.UpdatePreferences)
		feed.POST("/interactions", requireAuth, c.FeedHandler.RecordInteraction)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		if err := c.HealthCheck(checkCtx); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		})
	}
}
