package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/controllers"
	"github.com/snap-point/directory-api/middleware"
)

func SetupRoutes(r *gin.Engine, searchController *controllers.SearchController, allowedOrigins []string) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	api := r.Group("/api")
	{
		api.GET("/health", searchController.Health)
		api.GET("/categories", searchController.ListCategories)

		SetupBusinessRoutes(api, searchController)
	}
}
