package main

import (
  "fmt"
  "os"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/utils"
  "github.com/clausewise/clausewise-backend/internal/db"
  "github.com/clausewise/clausewise-backend/internal/repos"
  "github.com/clausewise/clausewise-backend/internal/risk"
  "github.com/clausewise/clausewise-backend/internal/answer"
  "github.com/clausewise/clausewise-backend/internal/services"
  "github.com/clausewise/clausewise-backend/internal/handlers"
  "github.com/clausewise/clausewise-backend/internal/server"
  redisclient "github.com/clausewise/clausewise-backend/internal/clients/redis"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  //Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  documentRepo := repos.NewDocumentRepo(thePG, log)
  clauseRepo := repos.NewClauseRepo(thePG, log)
  analysisRepo := repos.NewAnalysisRepo(thePG, log)
  assessmentRepo := repos.NewClauseAssessmentRepo(thePG, log)
  conversationRepo := repos.NewConversationRepo(thePG, log)
  messageRepo := repos.NewMessageRepo(thePG, log)

  // Optional analysis cache
  analysisCache, err := redisclient.NewAnalysisCache(log)
  if err != nil {
    log.Warn("Analysis cache disabled", "error", err)
    analysisCache = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  classifier := risk.NewRuleClassifier(log)
  generator := answer.NewTemplateGenerator(log)
  analysisService := services.NewAnalysisService(
    thePG,
    log,
    documentRepo,
    clauseRepo,
    analysisRepo,
    assessmentRepo,
    classifier,
    analysisCache,
  )
  conversationService := services.NewConversationService(
    thePG,
    log,
    documentRepo,
    conversationRepo,
    messageRepo,
    generator,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  analysisHandler := handlers.NewAnalysisHandler(log, analysisService)
  conversationHandler := handlers.NewConversationHandler(log, conversationService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AnalysisHandler:     analysisHandler,
    ConversationHandler: conversationHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
