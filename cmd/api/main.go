package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"optic-gov/oracle-backend/internal/auth"
	"optic-gov/oracle-backend/internal/config"
	"optic-gov/oracle-backend/internal/contractors"
	"optic-gov/oracle-backend/internal/projects"
	"optic-gov/oracle-backend/internal/verification"
	"optic-gov/oracle-backend/pkg/oracle"
	"optic-gov/oracle-backend/pkg/settlement"
	"optic-gov/oracle-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	if err := db.AutoMigrate(
		&contractors.Contractor{},
		&projects.Project{},
		&projects.Milestone{},
		&verification.VerificationAttempt{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()

	oracleClient, err := oracle.NewClient(ctx, cfg.Oracle.APIKey, cfg.Oracle.Model)
	if err != nil {
		log.Fatal("Failed to create oracle client:", err)
	}
	defer oracleClient.Close()

	settlementClient, err := settlement.NewClient(ctx, cfg.Ethereum.RPCURL, cfg.Ethereum.PrivateKey, cfg.Ethereum.ContractAddress)
	if err != nil {
		log.Fatal("Failed to create settlement client:", err)
	}
	defer settlementClient.Close()

	var evidenceStore storage.EvidenceStore
	if cfg.Storage.EvidenceBucket != "" {
		evidenceStore, err = storage.NewEvidenceStore(ctx, cfg.Storage.EvidenceBucket, cfg.Storage.Region)
		if err != nil {
			log.Fatal("Failed to create evidence store:", err)
		}
	}

	tokens := auth.NewTokenService(cfg.Security.JWTSecret, time.Duration(cfg.Security.TokenTTLMinutes)*time.Minute)

	r := gin.Default()

	// ---------------- CONTRACTORS ----------------
	contractorRepo := contractors.NewRepository(db)
	contractorService := contractors.NewService(contractorRepo)
	contractorHandler := contractors.NewHandler(contractorService, tokens)
	contractors.RegisterRoutes(r, contractorHandler)

	// ---------------- PROJECTS ----------------
	projectRepo := projects.NewRepository(db)
	planner := projects.NewPlanner(oracleClient)
	projectService := projects.NewService(projectRepo, contractorRepo, planner)
	projectHandler := projects.NewHandler(projectService)
	projects.RegisterRoutes(r, projectHandler)

	// ---------------- VERIFICATION ----------------
	verificationStore := verification.NewStore(db)
	verificationService := verification.NewService(
		verificationStore,
		oracleClient,
		settlementClient,
		time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Ethereum.TimeoutSeconds)*time.Second,
	)
	verificationHandler := verification.NewHandler(verificationService, verificationStore, evidenceStore)
	verification.RegisterRoutes(r, verificationHandler, auth.RequireAuth(tokens))

	reconciler := verification.NewReconciler(verificationStore)
	if err := reconciler.Start(); err != nil {
		log.Fatal("Failed to start reconciler:", err)
	}
	defer reconciler.Stop()

	// ---------------- HEALTH ----------------
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "AI Oracle is watching"})
	})

	addr := cfg.Server.GetServerAddr()
	log.Println("Server running on", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
