package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/clausewise/clausewise-backend/internal/handlers"
)

type RouterConfig struct {
  AnalysisHandler       *handlers.AnalysisHandler
  ConversationHandler   *handlers.ConversationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Analysis pipeline
    api.POST("/analyses", cfg.AnalysisHandler.Analyze)
    api.GET("/analyses/:id/assessments", cfg.AnalysisHandler.ListAssessments)
    api.GET("/documents/:id", cfg.AnalysisHandler.GetDocument)
    api.GET("/documents/:id/analysis", cfg.AnalysisHandler.GetAnalysis)
    // Q&A
    api.POST("/documents/:id/conversations", cfg.ConversationHandler.CreateConversation)
    api.POST("/documents/:id/ask", cfg.ConversationHandler.AskDirect)
    api.GET("/conversations/:id", cfg.ConversationHandler.GetConversation)
    api.POST("/conversations/:id/ask", cfg.ConversationHandler.Ask)
  }

  return router
}
